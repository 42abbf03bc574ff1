package tier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	records := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name  string
		limit tier.Quota
		want  []string
	}{
		{"under limit", 10, records},
		{"at limit", 5, records},
		{"tail dropped", 2, []string{"a", "b"}},
		{"zero", 0, []string{}},
		{"unlimited", tier.Unlimited, records},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tier.Truncate(records, tt.limit))
		})
	}
}

func TestTruncateIsDestructive(t *testing.T) {
	t.Parallel()

	c := tier.Default()
	gold, err := c.Get("gold")
	require.NoError(t, err)
	silver, err := c.Get("silver")
	require.NoError(t, err)

	tenants := make([]string, int(gold.TenantsLimit))
	for i := range tenants {
		tenants[i] = string(rune('A' + i))
	}

	downgraded := tier.Truncate(tenants, silver.TenantsLimit)
	require.Len(t, downgraded, int(silver.TenantsLimit))

	restored := tier.Truncate(downgraded, gold.TenantsLimit)
	assert.Len(t, restored, int(silver.TenantsLimit))
	assert.Equal(t, downgraded, restored)
	assert.Equal(t, cap(downgraded), len(downgraded))
}
