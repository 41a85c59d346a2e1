package cnpj

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsFormatting(t *testing.T) {
	require.Equal(t, "12345678000190", Normalize("12.345.678/0001-90"))
	require.Equal(t, "12345678000190", Normalize("12345678000190"))
	require.Equal(t, "", Normalize("abc"))
}

func TestRegistryLookup(t *testing.T) {
	c, ok := registry["12345678000190"]
	require.True(t, ok)
	require.Equal(t, "Tecelagem Horizonte Ltda", c.RazaoSocial)
	require.Equal(t, "SC", c.UF)

	_, ok = registry["00000000000000"]
	require.False(t, ok)
}
