package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InvalidIdentityError is returned when a facility name matches no canonical
// identity or alias. Valid maps each canonical identity to its accepted aliases.
type InvalidIdentityError struct {
	Name  string
	Valid map[string][]string
}

// NewInvalidIdentityError constructs an InvalidIdentityError.
func NewInvalidIdentityError(name string, valid map[string][]string) error {
	return &InvalidIdentityError{Name: name, Valid: valid}
}

func (e *InvalidIdentityError) Error() string {
	if e == nil {
		return ""
	}

	names := make([]string, 0, len(e.Valid))
	for name := range e.Valid {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%q is not a valid machine name\nValid machines are:", e.Name)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, strings.Join(e.Valid[name], ", "))
	}
	return b.String()
}

// PluginLoadError indicates a plugin module was found but failed while being
// loaded or bound.
type PluginLoadError struct {
	Module string
	Dir    string
	Err    error
}

// NewPluginLoadError constructs a PluginLoadError for the module found in dir.
func NewPluginLoadError(module, dir string, err error) error {
	return &PluginLoadError{Module: module, Dir: dir, Err: err}
}

func (e *PluginLoadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Dir != "" {
		return fmt.Sprintf("plugin error [%s in %s]: %v\nHint: fix the plugin source or remove it from the search path", e.Module, e.Dir, e.Err)
	}
	return fmt.Sprintf("plugin error [%s]: %v", e.Module, e.Err)
}

// Unwrap exposes the underlying error.
func (e *PluginLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MalformedDescriptorError reports a structurally invalid signal descriptor,
// such as a non-numeric range token.
type MalformedDescriptorError struct {
	Signal string
	Field  string
	Value  string
	Err    error
}

// NewMalformedDescriptorError constructs a MalformedDescriptorError.
func NewMalformedDescriptorError(signal, field, value string, err error) error {
	return &MalformedDescriptorError{Signal: signal, Field: field, Value: value, Err: err}
}

func (e *MalformedDescriptorError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("malformed descriptor %q: %s=%q", e.Signal, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying error.
func (e *MalformedDescriptorError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
