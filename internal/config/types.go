package config

import (
	"github.com/ktritz/fdp/internal/signal"
)

// Facility is the metadata document for one machine. Its embedded Container
// describes the facility's root node.
type Facility struct {
	Machine   string `yaml:"machine" validate:"required"`
	Container `yaml:",inline"`
}

// Container describes one namespace node: the attributes its signals
// inherit, the signals it owns, and its child containers.
type Container struct {
	Name       string              `yaml:"name,omitempty" validate:"omitempty,container_name"`
	Units      string              `yaml:"units,omitempty"`
	MDSPath    string              `yaml:"mdspath,omitempty"`
	MDSTree    string              `yaml:"mdstree,omitempty"`
	Signals    []signal.Descriptor `yaml:"signals,omitempty" validate:"omitempty,dive"`
	Containers []Container         `yaml:"containers,omitempty" validate:"omitempty,dive"`
	Defaults   []Defaults          `yaml:"defaults,omitempty" validate:"omitempty,dive"`
}

// Defaults is a method-defaults record: default argument values for a named
// method.
type Defaults struct {
	Method string            `yaml:"method" validate:"required"`
	Values map[string]string `yaml:"values,omitempty"`
}

// Child returns the direct child container with the given name.
func (c *Container) Child(name string) (*Container, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Containers {
		if c.Containers[i].Name == name {
			return &c.Containers[i], true
		}
	}
	return nil, false
}

// Walk visits c and every descendant container depth-first. path holds the
// names from c's first child down to the visited container.
func (c *Container) Walk(fn func(path []string, container *Container) error) error {
	if c == nil {
		return nil
	}
	return c.walk(nil, fn)
}

func (c *Container) walk(path []string, fn func([]string, *Container) error) error {
	if err := fn(path, c); err != nil {
		return err
	}
	for i := range c.Containers {
		child := &c.Containers[i]
		next := append(append([]string(nil), path...), child.Name)
		if err := child.walk(next, fn); err != nil {
			return err
		}
	}
	return nil
}
