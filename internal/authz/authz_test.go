package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("visualizar:cores")
	require.NoError(t, err)
	require.Equal(t, Permission{Action: "visualizar", Resource: "cores"}, p)

	p, err = Parse("editar:skus:uneg-01")
	require.NoError(t, err)
	require.Equal(t, "uneg-01", p.Scope)
	require.Equal(t, "editar:skus", p.Key())

	p, err = Parse(SentinelSuperAdmin)
	require.NoError(t, err)
	require.Equal(t, SentinelSuperAdmin, p.Action)

	_, err = Parse("semrecurso")
	require.Error(t, err)
}

func TestSuperAdminBypassesEverything(t *testing.T) {
	set := Resolve(true, nil, nil)
	require.True(t, set.Super())
	require.True(t, set.Has("qualquer", "coisa", ""))
	require.True(t, set.Has("excluir", "usuarios", "escopo"))
	require.Equal(t, []string{SentinelSuperAdmin}, set.Strings())
}

func TestUserGrantOverridesRoleGrant(t *testing.T) {
	role := []Permission{{Action: "editar", Resource: "cores", Scope: "uneg-01"}}
	user := []Permission{{Action: "editar", Resource: "cores", Scope: "uneg-02"}}

	set := Resolve(false, role, user)

	// Only the user's value survives for the shared action:resource key.
	require.Equal(t, []string{"editar:cores:uneg-02"}, set.Strings())
	require.True(t, set.Has("editar", "cores", "uneg-02"))
	require.False(t, set.Has("editar", "cores", "uneg-01"))
}

func TestPrecedence(t *testing.T) {
	t.Run("exact tuple", func(t *testing.T) {
		set := NewSet(Permission{Action: "visualizar", Resource: "cores", Scope: "x"})
		require.True(t, set.Has("visualizar", "cores", "x"))
		require.False(t, set.Has("visualizar", "cores", "y"))
		// Scoped grant does not satisfy an unscoped check.
		require.False(t, set.Has("visualizar", "cores", ""))
	})

	t.Run("resource-wide grant covers any scope", func(t *testing.T) {
		set := NewSet(Permission{Action: "visualizar", Resource: "cores"})
		require.True(t, set.Has("visualizar", "cores", ""))
		require.True(t, set.Has("visualizar", "cores", "qualquer"))
		require.False(t, set.Has("editar", "cores", ""))
	})

	t.Run("admin on resource", func(t *testing.T) {
		set := NewSet(Permission{Action: ActionAdmin, Resource: "cores"})
		require.True(t, set.Has("visualizar", "cores", ""))
		require.True(t, set.Has("excluir", "cores", ""))
		require.False(t, set.Has("visualizar", "familias", ""))
	})

	t.Run("global admin", func(t *testing.T) {
		set := NewSet(Permission{Action: ActionAdmin, Resource: ResourceAll})
		require.True(t, set.Has("visualizar", "cores", ""))
		require.True(t, set.Has("importar", "skus", ""))
	})
}

func TestSetFromStrings(t *testing.T) {
	set := SetFromStrings([]string{"visualizar:cores", "malformada", "editar:skus:uneg-01"})
	require.True(t, set.Has("visualizar", "cores", ""))
	require.True(t, set.Has("editar", "skus", "uneg-01"))
	require.False(t, set.Has("malformada", "", ""))

	set = SetFromStrings([]string{"visualizar:cores", SentinelSuperAdmin})
	require.True(t, set.Super())
}
