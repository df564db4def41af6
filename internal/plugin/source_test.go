package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".go"), []byte(source), 0o644))
}

func TestSourceDiscovererFollowsSearchPathOrder(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, second, "methods", `package main

var Exports = []string{"Second"}

func Second(self interface{}, args ...interface{}) (interface{}, error) { return "second", nil }
`)
	writeModule(t, first, "methods", `package main

var Exports = []string{"First"}

func First(self interface{}, args ...interface{}) (interface{}, error) { return "first", nil }
`)

	b, err := NewSourceDiscoverer().Discover([]string{first, second}, "methods")
	require.NoError(t, err)
	require.Equal(t, []string{"First"}, b.Exports)
}

func TestSourceDiscovererWithoutExportsDeclaresNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModule(t, dir, "cmod", `package main

func Plot(self interface{}, args ...interface{}) (interface{}, error) { return nil, nil }
`)

	b, err := NewSourceDiscoverer().Discover([]string{dir}, "cmod")
	require.NoError(t, err)
	require.Nil(t, b.Exports)
	require.Empty(t, b.Methods)
}

func TestSourceDiscovererRejectsWrongSignature(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeModule(t, dir, "diiid", `package main

var Exports = []string{"Count"}

func Count() int { return 1 }
`)

	_, err := NewSourceDiscoverer().Discover([]string{dir}, "diiid")
	var sigErr ErrBadSignature
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, "Count", sigErr.Name)
}

func TestSourceDiscovererMissingModule(t *testing.T) {
	t.Parallel()

	_, err := NewSourceDiscoverer().Discover([]string{t.TempDir(), "/definitely/missing"}, "methods")
	require.ErrorIs(t, err, ErrModuleNotFound)
}
