package main

import (
	"errors"
	"fmt"

	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// resolveError wraps a namespace failure with a suggestion matched to its
// cause.
func resolveError(operation, name string, err error) error {
	var (
		idErr     *fdperrors.InvalidIdentityError
		pluginErr *fdperrors.PluginLoadError
		malformed *fdperrors.MalformedDescriptorError
		parseErr  *fdperrors.ParseError
		validErr  *fdperrors.ValidationError
	)
	context := fmt.Sprintf("resolving %q", name)
	switch {
	case errors.As(err, &idErr):
		return newCommandError(operation, context, err, "Run 'fdp machines' to list valid names.")
	case errors.As(err, &pluginErr):
		return newCommandError(operation, context, err, "Fix the plugin module or run without --plugins.")
	case errors.As(err, &malformed), errors.As(err, &parseErr), errors.As(err, &validErr):
		return newCommandError(operation, context, err, "Fix the facility document in the --config directory.")
	default:
		return newCommandError(operation, context, err, "Re-run with --verbose for details.")
	}
}
