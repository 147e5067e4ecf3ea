package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductSourceIsValid(t *testing.T) {
	for _, raw := range []string{"custom", "seed", "promonitor"} {
		got := ProductSource(raw)
		require.True(t, got.IsValid())
		require.Equal(t, raw, got.String())
	}

	require.False(t, ProductSource("shopify").IsValid())
	require.False(t, ProductSource("").IsValid())
}

func TestProductSourcePtr(t *testing.T) {
	p := ProductSourceSeed.Ptr()
	require.NotNil(t, p)
	require.Equal(t, ProductSourceSeed, *p)
}

func TestParseAdminRole(t *testing.T) {
	role, err := ParseAdminRole("admin")
	require.NoError(t, err)
	require.Equal(t, AdminRoleAdmin, role)

	_, err = ParseAdminRole("owner")
	require.Error(t, err)
}
