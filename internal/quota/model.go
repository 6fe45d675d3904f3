package quota

import "time"

// Plan is the subscription tier controlling feature access.
type Plan string

const (
	PlanGuest      Plan = "Guest"
	PlanFree       Plan = "Free"
	PlanLight      Plan = "Light"
	PlanPro        Plan = "Pro"
	PlanTeam       Plan = "Team"
	PlanEnterprise Plan = "Enterprise"
)

// DefaultPlan and DefaultUses seed the ledger record created lazily on an
// account's first login.
const (
	DefaultPlan = PlanFree
	DefaultUses = 5
)

// ParsePlan maps a stored string onto a known tier, falling back to Free for
// anything unrecognized.
func ParsePlan(s string) Plan {
	switch Plan(s) {
	case PlanGuest, PlanFree, PlanLight, PlanPro, PlanTeam, PlanEnterprise:
		return Plan(s)
	default:
		return PlanFree
	}
}

// Paid reports whether the tier is above Free/Guest. Pattern-B scoring and
// copy generation are rejected outright for non-paid tiers, independent of
// remaining uses.
func (p Plan) Paid() bool {
	return p != PlanFree && p != PlanGuest
}

// Record matches the user_quotas table: one row per account, the single
// authoritative remaining-uses counter.
type Record struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	Plan          Plan       `json:"plan"`
	RemainingUses int        `json:"remaining_uses"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
}

// Status is the API view of the ledger.
type Status struct {
	Plan          Plan       `json:"plan"`
	RemainingUses int        `json:"remaining_uses"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
}
