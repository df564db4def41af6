package plugin

// Method is a function bound onto a node type's capability table. self is
// the node the method is invoked on.
type Method func(self any, args ...any) (any, error)

// Binder receives methods attached by the loader.
type Binder interface {
	Bind(name string, m Method)
}

// Bundle is a discovered module: its declared export list and the callables
// it defines. A nil Exports means the module declared no export list and
// nothing is attached from it.
type Bundle struct {
	Module  string
	Exports []string
	Methods map[string]Method
}

// NewBundle builds a bundle that exports every supplied method.
func NewBundle(module string, methods map[string]Method) Bundle {
	exports := make([]string, 0, len(methods))
	for name := range methods {
		exports = append(exports, name)
	}
	return Bundle{Module: module, Exports: exports, Methods: methods}
}
