package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlan_KnownTiers(t *testing.T) {
	for _, p := range []Plan{PlanGuest, PlanFree, PlanLight, PlanPro, PlanTeam, PlanEnterprise} {
		assert.Equal(t, p, ParsePlan(string(p)))
	}
}

func TestParsePlan_UnknownFallsBackToFree(t *testing.T) {
	assert.Equal(t, PlanFree, ParsePlan(""))
	assert.Equal(t, PlanFree, ParsePlan("Platinum"))
}

func TestPlan_Paid(t *testing.T) {
	assert.False(t, PlanGuest.Paid())
	assert.False(t, PlanFree.Paid())
	assert.True(t, PlanLight.Paid())
	assert.True(t, PlanPro.Paid())
	assert.True(t, PlanTeam.Paid())
	assert.True(t, PlanEnterprise.Paid())
}
