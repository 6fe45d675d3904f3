package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rasuta1125/banasukoAI/internal/api"
	"github.com/rasuta1125/banasukoAI/internal/identity"
	"github.com/rasuta1125/banasukoAI/internal/quota"
	"github.com/rasuta1125/banasukoAI/internal/session"
)

// SlotClearer wipes per-pattern scoring slots on logout.
type SlotClearer interface {
	Clear(ctx context.Context, uid string) error
}

type Handler struct {
	authSvc  *Service
	idp      *identity.Client
	quotaSvc *quota.Service
	sessions *session.Store
	slots    SlotClearer
	validate *validator.Validate
}

func NewHandler(authSvc *Service, idp *identity.Client, quotaSvc *quota.Service, sessions *session.Store, slots SlotClearer) *Handler {
	return &Handler{
		authSvc:  authSvc,
		idp:      idp,
		quotaSvc: quotaSvc,
		sessions: sessions,
		slots:    slots,
		validate: validator.New(),
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AccountResponse struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Plan          string `json:"plan"`
	RemainingUses int    `json:"remaining_uses"`
}

type AuthResponse struct {
	Tokens  *TokenPair      `json:"tokens"`
	Account AccountResponse `json:"account"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	account, err := h.idp.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			api.HandleError(w, api.ErrEmailAlreadyExists)
		case errors.Is(err, identity.ErrWeakPassword):
			api.HandleError(w, api.ErrWeakPassword)
		default:
			slog.Error("identity sign-up failed", "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	h.establishSession(w, r, account, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	account, err := h.idp.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			api.HandleError(w, api.ErrInvalidCredentials)
			return
		}
		slog.Error("identity sign-in failed", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	h.establishSession(w, r, account, http.StatusOK)
}

// establishSession hydrates the quota ledger (creating the Free/5 default on
// first login), caches it in the session record and issues a token pair.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, account *identity.Account, status int) {
	rec, err := h.quotaSvc.GetOrCreate(r.Context(), account.LocalID, account.Email)
	if err != nil {
		slog.Error("hydrating quota ledger", "uid", account.LocalID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	sess := &session.Session{
		UID:           rec.UID,
		Email:         rec.Email,
		Plan:          rec.Plan,
		RemainingUses: rec.RemainingUses,
	}
	if err := h.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("storing session", "uid", rec.UID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	tokens, err := h.authSvc.GenerateTokens(r.Context(), rec.UID, rec.Email)
	if err != nil {
		slog.Error("generating tokens", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, status, AuthResponse{
		Tokens: tokens,
		Account: AccountResponse{
			UID:           rec.UID,
			Email:         rec.Email,
			Plan:          string(rec.Plan),
			RemainingUses: rec.RemainingUses,
		},
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	tokens, err := h.authSvc.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		slog.Error("refreshing tokens", "error", err)
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	api.JSON(w, http.StatusOK, tokens)
}

// Logout is a full session clear: refresh tokens, the session record and any
// staged pattern slots all go.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	if err := h.authSvc.Logout(r.Context(), claims.UserID); err != nil {
		slog.Error("revoking refresh tokens", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if err := h.sessions.Delete(r.Context(), claims.UserID); err != nil {
		slog.Error("deleting session", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if err := h.slots.Clear(r.Context(), claims.UserID); err != nil {
		slog.Error("clearing pattern slots", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONMessage(w, http.StatusOK, "logged out successfully")
}

// GetAccount returns the cached session view of the account, rebuilding it
// from the ledger when the session record has expired.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	sess, err := h.sessions.Get(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("fetching session", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if sess == nil {
		rec, err := h.quotaSvc.GetOrCreate(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			slog.Error("rehydrating quota ledger", "uid", claims.UserID, "error", err)
			api.HandleError(w, api.ErrInternalServer)
			return
		}
		sess = &session.Session{
			UID:           rec.UID,
			Email:         rec.Email,
			Plan:          rec.Plan,
			RemainingUses: rec.RemainingUses,
		}
		if err := h.sessions.Put(r.Context(), sess); err != nil {
			slog.Error("storing session", "uid", claims.UserID, "error", err)
			api.HandleError(w, api.ErrInternalServer)
			return
		}
	}

	api.JSON(w, http.StatusOK, AccountResponse{
		UID:           sess.UID,
		Email:         sess.Email,
		Plan:          string(sess.Plan),
		RemainingUses: sess.RemainingUses,
	})
}

// GetQuota reads the authoritative ledger state, bypassing the session cache.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	rec, err := h.quotaSvc.GetOrCreate(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		slog.Error("fetching quota record", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, quota.Status{
		Plan:          rec.Plan,
		RemainingUses: rec.RemainingUses,
		LastUsedAt:    rec.LastUsedAt,
	})
}
