package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rasuta1125/banasukoAI/internal/ai"
	"github.com/rasuta1125/banasukoAI/internal/events"
	"github.com/rasuta1125/banasukoAI/internal/metrics"
	"github.com/rasuta1125/banasukoAI/internal/session"
)

// Gating and pipeline failures the handler maps onto the API error taxonomy.
var (
	ErrPlanRestricted  = errors.New("pattern not available on current plan")
	ErrQuotaExhausted  = errors.New("no remaining uses")
	ErrQuotaUpdate     = errors.New("quota update failed")
	ErrUpload          = errors.New("image upload failed")
	ErrCompareNotReady = errors.New("both patterns must be scored first")
)

// AIClient is the subset of the model client the pipeline needs.
type AIClient interface {
	ScoreImage(ctx context.Context, prompt, imageURL string) (string, error)
	ReviewText(ctx context.Context, prompt string) (string, error)
	CompareResults(ctx context.Context, prompt string) (string, error)
}

// Ledger spends quota credits. ok=false means the ledger write failed and the
// pipeline must stop before any model call.
type Ledger interface {
	Decrement(ctx context.Context, uid string) (remaining int, ok bool)
}

// SessionSync pushes the post-decrement counter back into the session cache.
type SessionSync interface {
	SyncRemainingUses(ctx context.Context, uid string, remaining int) error
}

// Slots stages per-pattern results for comparison.
type Slots interface {
	Put(ctx context.Context, uid string, slot *Slot) error
	Get(ctx context.Context, uid string, pattern Pattern) (*Slot, error)
}

// Uploader persists banner images.
type Uploader interface {
	Upload(ctx context.Context, uid, filename string, data []byte, contentType string) (string, error)
}

// Service runs the scoring pipeline: gate, spend, upload, evaluate, persist.
type Service struct {
	repo      Repository
	slots     Slots
	ledger    Ledger
	sessions  SessionSync
	uploader  Uploader
	ai        AIClient
	publisher *events.Publisher

	restrictPatternA bool
}

func NewService(repo Repository, slots Slots, ledger Ledger, sessions SessionSync,
	uploader Uploader, aiClient AIClient, publisher *events.Publisher, restrictPatternA bool) *Service {
	return &Service{
		repo:             repo,
		slots:            slots,
		ledger:           ledger,
		sessions:         sessions,
		uploader:         uploader,
		ai:               aiClient,
		publisher:        publisher,
		restrictPatternA: restrictPatternA,
	}
}

// ScoreInput carries one banner image plus its ad metadata.
type ScoreInput struct {
	Pattern      Pattern
	Image        []byte
	ContentType  string
	Context      ScoreContext
	FollowerGain *int
	Memo         string
}

// ScoreOutcome is the pipeline result. RemainingUses reflects the ledger
// after the spend; Saved is false when the durable record could not be
// written (the evaluation itself still stands).
type ScoreOutcome struct {
	Record        *Record    `json:"record"`
	Evaluation    Evaluation `json:"evaluation"`
	Verdict       string     `json:"verdict,omitempty"`
	RemainingUses int        `json:"remaining_uses"`
	Saved         bool       `json:"saved"`
}

// Score runs the full pipeline for one pattern. Plan and quota gates run
// before the credit is spent; the credit is spent before any upload or model
// call. A failed model call still spends the credit; the error result is
// staged and returned but never written to history.
func (s *Service) Score(ctx context.Context, sess *session.Session, in ScoreInput) (*ScoreOutcome, error) {
	if !sess.Plan.Paid() {
		if in.Pattern == PatternB || (in.Pattern == PatternA && s.restrictPatternA) {
			metrics.QuotaDenialsTotal.WithLabelValues("plan").Inc()
			return nil, ErrPlanRestricted
		}
	}
	if sess.RemainingUses <= 0 {
		metrics.QuotaDenialsTotal.WithLabelValues("quota").Inc()
		return nil, ErrQuotaExhausted
	}

	remaining, ok := s.ledger.Decrement(ctx, sess.UID)
	if !ok {
		return nil, ErrQuotaUpdate
	}
	if err := s.sessions.SyncRemainingUses(ctx, sess.UID, remaining); err != nil {
		slog.Warn("syncing session counter", "uid", sess.UID, "error", err)
	}

	filename := fmt.Sprintf("banner_%s_%s.png", in.Pattern, time.Now().Format("20060102150405"))
	imageURL, err := s.uploader.Upload(ctx, sess.UID, filename, in.Image, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	// The model sees the image inline; the stored URL is for records and
	// later comparison.
	prompt := BuildScorePrompt(in.Context)
	raw, err := s.ai.ScoreImage(ctx, prompt, ai.DataURL(in.ContentType, in.Image))

	var ev Evaluation
	if err != nil {
		slog.Error("scoring model call failed", "uid", sess.UID, "pattern", in.Pattern, "error", err)
		ev = ErrorEvaluation()
	} else {
		ev = ParseEvaluation(raw)
	}
	metrics.ScoringsTotal.WithLabelValues(string(in.Pattern), string(ev.Status)).Inc()

	// The compliance verdict lives in the slot for this session only; the
	// durable record keeps the raw model output instead.
	var verdict string
	if ev.Status == StatusScored && RegulatedIndustry(in.Context.Industry) {
		verdict = s.CheckCompliance(ctx, in.Context.Industry, ev.Comment)
	}

	rec := &Record{
		UID:          sess.UID,
		Pattern:      in.Pattern,
		Platform:     in.Context.Platform,
		Category:     in.Context.Category,
		Industry:     in.Context.Industry,
		AgeGroup:     in.Context.AgeGroup,
		Purpose:      in.Context.Purpose,
		Score:        ev.Score,
		Comment:      ev.Comment,
		Result:       ev.Raw,
		FollowerGain: in.FollowerGain,
		Memo:         in.Memo,
		ImageURL:     imageURL,
		CreatedAt:    time.Now(),
	}

	// Only real scorings enter the history; error sentinels stop at the slot.
	// A failed insert loses history but not the evaluation; the caller sees
	// the result with saved=false.
	saved := false
	if ev.Status != StatusError {
		if err := s.repo.Insert(ctx, rec); err != nil {
			slog.Error("persisting diagnosis", "uid", sess.UID, "pattern", in.Pattern, "error", err)
		} else {
			saved = true
		}
	}

	if err := s.slots.Put(ctx, sess.UID, &Slot{
		Pattern:  in.Pattern,
		Status:   ev.Status,
		Score:    ev.Score,
		Comment:  ev.Comment,
		Verdict:  verdict,
		ImageURL: imageURL,
		ScoredAt: rec.CreatedAt,
	}); err != nil {
		slog.Warn("staging pattern slot", "uid", sess.UID, "pattern", in.Pattern, "error", err)
	}

	var diagnosisID string
	if rec.ID != uuid.Nil {
		diagnosisID = rec.ID.String()
	}
	if err := s.publisher.PublishDiagnosisScored(ctx, events.DiagnosisScored{
		DiagnosisID: diagnosisID,
		UID:         rec.UID,
		Pattern:     string(rec.Pattern),
		Status:      string(ev.Status),
		Score:       ev.Score,
		Industry:    rec.Industry,
		Result:      verdict,
		Timestamp:   rec.CreatedAt,
	}); err != nil {
		slog.Warn("publishing diagnosis event", "error", err)
	}

	return &ScoreOutcome{
		Record:        rec,
		Evaluation:    ev,
		Verdict:       verdict,
		RemainingUses: remaining,
		Saved:         saved,
	}, nil
}

// CheckCompliance reviews ad copy for regulated industries. Only a review
// that affirmatively answers OK passes; any failure of the review itself is
// treated as a caution.
func (s *Service) CheckCompliance(ctx context.Context, industry, adText string) string {
	if !RegulatedIndustry(industry) {
		return ResultOK
	}

	raw, err := s.ai.ReviewText(ctx, BuildCompliancePrompt(industry, adText))
	if err != nil {
		slog.Error("compliance review failed", "industry", industry, "error", err)
		return ResultCaution
	}
	if strings.Contains(raw, "OK") {
		return ResultOK
	}
	return ResultCaution
}

// SlotPair is the staged state of both patterns.
type SlotPair struct {
	A *Slot `json:"a"`
	B *Slot `json:"b"`
}

// GetSlots returns whatever is currently staged for the account.
func (s *Service) GetSlots(ctx context.Context, uid string) (*SlotPair, error) {
	a, err := s.slots.Get(ctx, uid, PatternA)
	if err != nil {
		return nil, err
	}
	b, err := s.slots.Get(ctx, uid, PatternB)
	if err != nil {
		return nil, err
	}
	return &SlotPair{A: a, B: b}, nil
}

// Compare judges the two staged patterns against each other. Both must be
// present and successfully scored; error slots never qualify.
func (s *Service) Compare(ctx context.Context, uid string, sc ScoreContext) (string, error) {
	pair, err := s.GetSlots(ctx, uid)
	if err != nil {
		return "", err
	}
	if pair.A == nil || pair.B == nil || pair.A.Status != StatusScored || pair.B.Status != StatusScored {
		return "", ErrCompareNotReady
	}

	// The comparison is text only; the staged scores, comments and verdicts
	// carry everything the judge needs.
	verdict, err := s.ai.CompareResults(ctx, BuildComparePrompt(sc, pair.A, pair.B))
	if err != nil {
		return "", fmt.Errorf("comparison model call: %w", err)
	}

	if err := s.publisher.PublishComparisonDone(ctx, events.ComparisonDone{
		UID:       uid,
		Timestamp: time.Now(),
	}); err != nil {
		slog.Warn("publishing comparison event", "error", err)
	}

	return verdict, nil
}

// List returns the account's diagnosis history, newest first.
func (s *Service) List(ctx context.Context, uid string, page, pageSize int) ([]Record, int, error) {
	offset := (page - 1) * pageSize
	return s.repo.ListByUser(ctx, uid, pageSize, offset)
}
