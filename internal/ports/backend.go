// Package ports declares the boundaries the metadata core hands off to.
package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ktritz/fdp/internal/signal"
)

// ErrUnaddressable is returned by FetchSignal when a spec has no storage
// path to fetch.
var ErrUnaddressable = errors.New("ports: signal has no storage path")

// Samples is one signal's data and its time base.
type Samples struct {
	Data []float64
	Time []float64
}

// Backend retrieves samples from a data store. Implementations live outside
// this module; the core only produces the (tree, path) addresses they take.
//
// Fetch must respect ctx cancellation. shot identifies the run or session.
type Backend interface {
	Fetch(ctx context.Context, tree, path string, shot int64) (Samples, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, tree, path string, shot int64) (Samples, error)

// Fetch calls f.
func (f BackendFunc) Fetch(ctx context.Context, tree, path string, shot int64) (Samples, error) {
	return f(ctx, tree, path, shot)
}

// FetchSignal fetches the samples addressed by spec.
func FetchSignal(ctx context.Context, b Backend, spec signal.Spec, shot int64) (Samples, error) {
	if spec.Path == "" {
		return Samples{}, fmt.Errorf("%w: %q", ErrUnaddressable, spec.Name)
	}
	if err := ctx.Err(); err != nil {
		return Samples{}, err
	}
	samples, err := b.Fetch(ctx, spec.Tree, spec.Path, shot)
	if err != nil {
		return Samples{}, fmt.Errorf("fetch %s (%s:%s, shot %d): %w", spec.Name, spec.Tree, spec.Path, shot, err)
	}
	return samples, nil
}
