package copygen

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rasuta1125/banasukoAI/internal/api"
	"github.com/rasuta1125/banasukoAI/internal/auth"
	"github.com/rasuta1125/banasukoAI/internal/quota"
	"github.com/rasuta1125/banasukoAI/internal/session"
)

type Handler struct {
	svc      *Service
	sessions *session.Store
	quotaSvc *quota.Service
	validate *validator.Validate
}

func NewHandler(svc *Service, sessions *session.Store, quotaSvc *quota.Service) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		quotaSvc: quotaSvc,
		validate: validator.New(),
	}
}

type GenerateRequest struct {
	Product     string `json:"product" validate:"required"`
	Target      string `json:"target"`
	AppealPoint string `json:"appeal_point"`
	Tone        string `json:"tone"`
	Industry    string `json:"industry"`
}

type GenerateResponse struct {
	Copies []string `json:"copies"`
}

// Generate handles POST /copies/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
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

	copies, err := h.svc.Generate(r.Context(), sess, GenerateInput{
		Product:     req.Product,
		Target:      req.Target,
		AppealPoint: req.AppealPoint,
		Tone:        req.Tone,
		Industry:    req.Industry,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanRestricted):
			api.HandleError(w, api.ErrPlanRestricted)
		case errors.Is(err, ErrQuotaExhausted):
			api.HandleError(w, api.ErrQuotaExhausted)
		default:
			slog.Error("generating copies", "uid", claims.UserID, "error", err)
			api.HandleError(w, api.ErrInternalServer)
		}
		return
	}

	api.JSON(w, http.StatusOK, GenerateResponse{Copies: copies})
}
