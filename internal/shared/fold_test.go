package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	require.Equal(t, "verde agua", Fold("  Verde Água "))
	require.Equal(t, "azul", Fold("AZUL"))
	require.Equal(t, "confeccao", Fold("Confecção"))
	require.Equal(t, "", Fold("   "))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 45)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 3, p.TotalPages)

	p = NewPagination(2, 10, 45)
	require.Equal(t, 5, p.TotalPages)
	require.Equal(t, 45, p.Total)
}
