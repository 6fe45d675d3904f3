package copygen

import "github.com/rasuta1125/banasukoAI/internal/quota"

// Copy variants produced per generation, by plan. Zero means the plan has no
// access to copy generation at all.
var planCopyCounts = map[quota.Plan]int{
	quota.PlanGuest:      0,
	quota.PlanFree:       0,
	quota.PlanLight:      3,
	quota.PlanPro:        5,
	quota.PlanTeam:       10,
	quota.PlanEnterprise: 10,
}

// CopyCount returns how many variants the plan is entitled to.
func CopyCount(p quota.Plan) int {
	return planCopyCounts[p]
}
