package diagnosis

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasuta1125/banasukoAI/internal/api"
	"github.com/rasuta1125/banasukoAI/internal/auth"
	"github.com/rasuta1125/banasukoAI/internal/quota"
	"github.com/rasuta1125/banasukoAI/internal/session"
)

// Uploaded banners are capped well above any realistic ad creative.
const maxImageBytes = 10 << 20

type Handler struct {
	svc      *Service
	sessions *session.Store
	quotaSvc *quota.Service
}

func NewHandler(svc *Service, sessions *session.Store, quotaSvc *quota.Service) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		quotaSvc: quotaSvc,
	}
}

// currentSession loads the session record, rebuilding it from the ledger when
// the Redis record has expired mid-session.
func (h *Handler) currentSession(r *http.Request) (*session.Session, error) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		return nil, api.ErrUnauthorized
	}

	sess, err := h.sessions.Get(r.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		rec, err := h.quotaSvc.GetOrCreate(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			return nil, err
		}
		sess = &session.Session{
			UID:           rec.UID,
			Email:         rec.Email,
			Plan:          rec.Plan,
			RemainingUses: rec.RemainingUses,
		}
		if err := h.sessions.Put(r.Context(), sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// ScorePattern handles POST /diagnoses/{pattern}/score with a multipart body:
// the image file plus the ad metadata fields.
func (h *Handler) ScorePattern(w http.ResponseWriter, r *http.Request) {
	pattern, ok := ParsePattern(chi.URLParam(r, "pattern"))
	if !ok {
		api.HandleError(w, api.NewBadRequestError("pattern must be A or B"))
		return
	}

	sess, err := h.currentSession(r)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("image file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("reading image"))
		return
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		api.HandleError(w, api.NewBadRequestError("image must be between 1 byte and 10MB"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	in := ScoreInput{
		Pattern:     pattern,
		Image:       data,
		ContentType: contentType,
		Context: ScoreContext{
			Platform:    r.FormValue("platform"),
			Category:    r.FormValue("category"),
			Industry:    r.FormValue("industry"),
			AgeGroup:    r.FormValue("age_group"),
			Purpose:     r.FormValue("purpose"),
			ScoreFormat: r.FormValue("score_format"),
			Annotations: r.FormValue("annotations"),
		},
		Memo: r.FormValue("memo"),
	}
	if v := r.FormValue("follower_gain"); v != "" {
		gain, err := strconv.Atoi(v)
		if err != nil {
			api.HandleError(w, api.NewBadRequestError("follower_gain must be an integer"))
			return
		}
		in.FollowerGain = &gain
	}

	outcome, err := h.svc.Score(r.Context(), sess, in)
	if err != nil {
		h.handleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, outcome)
}

// GetSlots handles GET /diagnoses/slots.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	pair, err := h.svc.GetSlots(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("fetching slots", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, pair)
}

type CompareRequest struct {
	Platform string `json:"platform"`
	Purpose  string `json:"purpose"`
}

type CompareResponse struct {
	Verdict string `json:"verdict"`
}

// Compare handles POST /diagnoses/compare. The body is optional context; the
// images come from the staged slots.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req CompareRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.HandleError(w, api.ErrBadRequest)
			return
		}
	}

	verdict, err := h.svc.Compare(r.Context(), claims.UserID, ScoreContext{
		Platform: req.Platform,
		Purpose:  req.Purpose,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, CompareResponse{Verdict: verdict})
}

// ListDiagnoses handles GET /diagnoses with page/page_size query params.
func (h *Handler) ListDiagnoses(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := h.svc.List(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		slog.Error("listing diagnoses", "uid", claims.UserID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if records == nil {
		records = []Record{}
	}

	api.JSONPaginated(w, http.StatusOK, records, int64(total), page, pageSize)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPlanRestricted):
		api.HandleError(w, api.ErrPlanRestricted)
	case errors.Is(err, ErrQuotaExhausted):
		api.HandleError(w, api.ErrQuotaExhausted)
	case errors.Is(err, ErrQuotaUpdate):
		api.HandleError(w, api.ErrQuotaUpdateFailed)
	case errors.Is(err, ErrUpload):
		api.HandleError(w, api.ErrUploadFailed)
	case errors.Is(err, ErrCompareNotReady):
		api.HandleError(w, api.ErrCompareNotReady)
	default:
		var appErr *api.AppError
		if errors.As(err, &appErr) {
			api.HandleError(w, appErr)
			return
		}
		slog.Error("diagnosis request failed", "error", err)
		api.HandleError(w, api.ErrInternalServer)
	}
}
