package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/vendapos/venda/internal/testing/guard"
)

func TestInTestModeFollowsGuard(t *testing.T) {
	require.True(t, InTestMode())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv("VENDA_TEST_MODE", "0")
	RefreshTestMode()
	require.False(t, InTestMode())

	t.Setenv("VENDA_TEST_MODE", "1")
	RefreshTestMode()
	require.True(t, InTestMode())
}
