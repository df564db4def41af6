package plugin

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Level selects which part of the namespace a plugin module extends.
type Level int

const (
	// LevelTop modules extend every facility.
	LevelTop Level = iota
	// LevelFacility modules extend one canonical identity.
	LevelFacility
	// LevelBranch modules extend a container at a dotted branch path.
	LevelBranch
)

const (
	topModule  = "methods"
	methodsDir = "methods"
)

func (l Level) String() string {
	switch l {
	case LevelTop:
		return "top"
	case LevelFacility:
		return "facility"
	case LevelBranch:
		return "branch"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Location is the directory searched first for a level's module and the
// module name looked up there.
type Location struct {
	Level  Level
	Dir    string
	Module string
}

func (loc Location) String() string {
	return filepath.Join(loc.Dir, loc.Module)
}

// Locate computes the deterministic module location for a level:
//
//	top:      <root>                         module "methods"
//	facility: <root>/methods                 module <identity>
//	branch:   <root>/methods/<identity>/a/b  module "c" for branch "a.b.c"
func Locate(root string, level Level, identity, branch string) (Location, error) {
	switch level {
	case LevelTop:
		return Location{Level: level, Dir: filepath.Clean(root), Module: topModule}, nil
	case LevelFacility:
		if identity == "" {
			return Location{}, fmt.Errorf("plugin: facility level requires an identity")
		}
		return Location{Level: level, Dir: filepath.Join(root, methodsDir), Module: identity}, nil
	case LevelBranch:
		if identity == "" {
			return Location{}, fmt.Errorf("plugin: branch level requires an identity")
		}
		segments := strings.Split(branch, ".")
		for _, seg := range segments {
			if strings.TrimSpace(seg) == "" {
				return Location{}, fmt.Errorf("plugin: invalid branch path %q", branch)
			}
		}
		module := segments[len(segments)-1]
		parts := append([]string{root, methodsDir, identity}, segments[:len(segments)-1]...)
		return Location{Level: level, Dir: filepath.Join(parts...), Module: module}, nil
	default:
		return Location{}, fmt.Errorf("plugin: unknown level %s", level)
	}
}
