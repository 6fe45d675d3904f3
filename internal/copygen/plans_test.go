package copygen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rasuta1125/banasukoAI/internal/quota"
)

func TestCopyCount(t *testing.T) {
	assert.Equal(t, 0, CopyCount(quota.PlanGuest))
	assert.Equal(t, 0, CopyCount(quota.PlanFree))
	assert.Equal(t, 3, CopyCount(quota.PlanLight))
	assert.Equal(t, 5, CopyCount(quota.PlanPro))
	assert.Equal(t, 10, CopyCount(quota.PlanTeam))
	assert.Equal(t, 10, CopyCount(quota.PlanEnterprise))
}
