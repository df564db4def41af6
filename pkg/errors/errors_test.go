package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("nstxu.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "nstxu.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "nstxu.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("signals[1].name", "is required", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "signals[1].name", validationErr.Field)
	require.Equal(t, "validation error: signals[1].name: is required", err.Error())
}

func TestInvalidIdentityErrorListsEveryIdentity(t *testing.T) {
	t.Parallel()

	err := NewInvalidIdentityError("jet", map[string][]string{
		"nstxu": {"nstx", "nstxu", "nstx-u"},
		"cmod":  {"cmod", "c-mod"},
	})

	var identityErr *InvalidIdentityError
	require.ErrorAs(t, err, &identityErr)
	require.Equal(t, "jet", identityErr.Name)

	msg := err.Error()
	require.Contains(t, msg, `"jet" is not a valid machine name`)
	require.Contains(t, msg, "cmod: cmod, c-mod")
	require.Contains(t, msg, "nstxu: nstx, nstxu, nstx-u")
	require.Less(t, indexOf(msg, "cmod:"), indexOf(msg, "nstxu:"))
}

func TestPluginLoadErrorIncludesModule(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("undefined: foo")
	err := NewPluginLoadError("bes", "/plugins/methods/nstxu", underlying)

	var pluginErr *PluginLoadError
	require.ErrorAs(t, err, &pluginErr)
	require.Equal(t, "bes", pluginErr.Module)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "bes in /plugins/methods/nstxu")
}

func TestMalformedDescriptorErrorIncludesField(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("invalid syntax")
	err := NewMalformedDescriptorError("ch{}", "range", "1,x", underlying)

	var descErr *MalformedDescriptorError
	require.ErrorAs(t, err, &descErr)
	require.Equal(t, "range", descErr.Field)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, `malformed descriptor "ch{}": range="1,x": invalid syntax`, err.Error())
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var identityErr *InvalidIdentityError
	var pluginErr *PluginLoadError
	var descErr *MalformedDescriptorError

	require.Empty(t, parseErr.Error())
	require.Empty(t, identityErr.Error())
	require.Empty(t, pluginErr.Error())
	require.Nil(t, pluginErr.Unwrap())
	require.Nil(t, descErr.Unwrap())
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
