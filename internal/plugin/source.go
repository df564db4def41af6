package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ExportsSymbol names the variable a source module uses to declare its
// export list.
const ExportsSymbol = "Exports"

type methodFunc = func(any, ...any) (any, error)

// SourceDiscoverer loads modules from Go source files named <module>.go on
// the search path and evaluates them with the yaegi interpreter. A module is
// a `package main` file that declares
//
//	var Exports = []string{"name", ...}
//
// and defines each exported name as
//
//	func(self interface{}, args ...interface{}) (interface{}, error)
//
// Every module gets a fresh interpreter, so modules cannot see each other.
type SourceDiscoverer struct{}

// NewSourceDiscoverer returns a yaegi-backed discoverer.
func NewSourceDiscoverer() *SourceDiscoverer {
	return &SourceDiscoverer{}
}

// Discover interprets the first <dir>/<module>.go found on the search path.
func (d *SourceDiscoverer) Discover(searchPath []string, module string) (Bundle, error) {
	for _, dir := range searchPath {
		path := filepath.Join(dir, module+".go")
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Bundle{}, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		return interpretModule(path, module)
	}
	return Bundle{}, ErrModuleNotFound
}

func interpretModule(path, module string) (b Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpret %s: panic: %v", path, r)
		}
	}()

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Bundle{}, fmt.Errorf("interpret %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return Bundle{}, fmt.Errorf("interpret %s: %w", path, err)
	}

	b = Bundle{Module: module}
	exportsValue, err := i.Eval(ExportsSymbol)
	if err != nil {
		// No export list declared: nothing is attached.
		return b, nil
	}
	exports, ok := exportsValue.Interface().([]string)
	if !ok {
		return Bundle{}, fmt.Errorf("%s: %s must be []string, got %s", path, ExportsSymbol, exportsValue.Type())
	}

	b.Exports = append([]string{}, exports...)
	b.Methods = make(map[string]Method, len(exports))
	for _, name := range exports {
		value, err := i.Eval(name)
		if err != nil {
			return Bundle{}, ErrExportNotFound{Module: module, Name: name}
		}
		fn, err := asMethod(module, name, value)
		if err != nil {
			return Bundle{}, err
		}
		b.Methods[name] = fn
	}
	return b, nil
}

func asMethod(module, name string, value reflect.Value) (Method, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		got := "invalid"
		if value.IsValid() {
			got = value.Type().String()
		}
		return nil, ErrBadSignature{Module: module, Name: name, Got: got}
	}
	fn, ok := value.Interface().(methodFunc)
	if !ok {
		return nil, ErrBadSignature{Module: module, Name: name, Got: value.Type().String()}
	}
	return Method(fn), nil
}
