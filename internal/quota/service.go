package quota

import (
	"context"
	"log/slog"
)

// Service fronts the ledger. The session's plan/remaining_uses pair is only a
// cache of this ledger; callers are responsible for re-syncing it after every
// successful decrement — it is never re-derived automatically.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate hydrates the account's ledger state, creating the default
// record on first login.
func (s *Service) GetOrCreate(ctx context.Context, uid, email string) (*Record, error) {
	return s.repo.GetOrCreate(ctx, uid, email)
}

// Decrement spends exactly one use. It reports failure with ok=false instead
// of an error: a failed ledger write is a hard stop for the current action
// but must not crash the page flow.
func (s *Service) Decrement(ctx context.Context, uid string) (remaining int, ok bool) {
	remaining, err := s.repo.Decrement(ctx, uid)
	if err != nil {
		slog.Error("quota: decrement failed", "uid", uid, "error", err)
		return 0, false
	}
	return remaining, true
}
