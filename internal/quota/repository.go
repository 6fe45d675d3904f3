package quota

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles user_quotas PostgreSQL operations. Account IDs are the
// identity provider's opaque localId strings, not locally minted UUIDs.
type Repository interface {
	GetOrCreate(ctx context.Context, uid, email string) (*Record, error)
	Decrement(ctx context.Context, uid string) (int, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// GetOrCreate returns the account's ledger row, creating the default record
// {plan=Free, remaining_uses=5} if none exists yet.
func (r *postgresRepository) GetOrCreate(ctx context.Context, uid, email string) (*Record, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_quotas (uid, email, plan, remaining_uses)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (uid) DO NOTHING`,
		uid, email, string(DefaultPlan), DefaultUses)
	if err != nil {
		return nil, fmt.Errorf("ensuring quota record: %w", err)
	}

	var rec Record
	var plan string
	err = r.pool.QueryRow(ctx,
		`SELECT uid, email, plan, remaining_uses, created_at, last_used_at
		 FROM user_quotas WHERE uid = $1`, uid,
	).Scan(&rec.UID, &rec.Email, &plan, &rec.RemainingUses, &rec.CreatedAt, &rec.LastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching quota record: %w", err)
	}
	rec.Plan = ParsePlan(plan)
	return &rec, nil
}

// Decrement spends one use and stamps last_used_at, flooring the counter at
// zero, and returns the new remaining count.
//
// This is a plain remote decrement, not a compare-and-set: two concurrent
// sessions for the same account may both spend the same credit. At-least-once
// semantics are accepted here; callers gate on remaining_uses > 0 beforehand.
func (r *postgresRepository) Decrement(ctx context.Context, uid string) (int, error) {
	var remaining int
	err := r.pool.QueryRow(ctx,
		`UPDATE user_quotas
		 SET remaining_uses = GREATEST(remaining_uses - 1, 0),
		     last_used_at = NOW()
		 WHERE uid = $1
		 RETURNING remaining_uses`, uid,
	).Scan(&remaining)
	if err != nil {
		return 0, fmt.Errorf("decrementing quota: %w", err)
	}
	return remaining, nil
}
