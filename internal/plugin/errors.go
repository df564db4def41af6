package plugin

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound is returned by a Discoverer when no module with the
// requested name exists on the search path. The loader treats it as "no
// extensions at this level".
var ErrModuleNotFound = errors.New("plugin module not found")

// ErrExportNotFound is returned when a module's export list names a callable
// the module does not define.
type ErrExportNotFound struct {
	Module string
	Name   string
}

func (e ErrExportNotFound) Error() string {
	return fmt.Sprintf("module '%s' exports '%s' but does not define it\nHint: define the function or remove it from Exports", e.Module, e.Name)
}

// ErrBadSignature is returned when an exported symbol is not a Method.
type ErrBadSignature struct {
	Module string
	Name   string
	Got    string
}

func (e ErrBadSignature) Error() string {
	return fmt.Sprintf(
		"module '%s' export '%s' has type %s\nHint: exported methods must be func(self interface{}, args ...interface{}) (interface{}, error)",
		e.Module,
		e.Name,
		e.Got,
	)
}
