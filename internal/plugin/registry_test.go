package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndDiscover(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	loc, err := Locate("/plugins", LevelFacility, "nstxu", "")
	require.NoError(t, err)

	bundle := NewBundle("", map[string]Method{"shotlist": noopMethod})
	require.NoError(t, reg.Register(loc, bundle))

	got, err := reg.Discover([]string{"/elsewhere", "/plugins/methods/"}, "nstxu")
	require.NoError(t, err)
	require.Equal(t, "nstxu", got.Module)
	require.Equal(t, []string{"shotlist"}, got.Exports)
	require.Equal(t, []string{"/plugins/methods/nstxu"}, reg.Modules())
}

func TestRegistryPreventsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	loc := Location{Dir: "/plugins", Module: "methods"}

	require.NoError(t, reg.Register(loc, Bundle{}))
	require.Error(t, reg.Register(loc, Bundle{}))
	require.Panics(t, func() { reg.MustRegister(loc, Bundle{}) })
}

func TestRegistryReturnsNotFoundOutsideSearchPath(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Location{Dir: "/plugins", Module: "methods"}, Bundle{})

	_, err := reg.Discover([]string{"/other"}, "methods")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestChainSkipsDiscoverersWithoutTheModule(t *testing.T) {
	t.Parallel()

	first := NewRegistry()
	second := NewRegistry()
	second.MustRegister(Location{Dir: "/p", Module: "methods"}, Bundle{Module: "methods", Exports: []string{}})

	got, err := Chain(nil, first, second).Discover([]string{"/p"}, "methods")
	require.NoError(t, err)
	require.Equal(t, "methods", got.Module)

	_, err = Chain(first).Discover([]string{"/p"}, "methods")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func noopMethod(self any, args ...any) (any, error) {
	return nil, nil
}
