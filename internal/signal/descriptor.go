// Package signal expands declarative signal descriptors into concrete,
// addressable signal metadata.
package signal

// Descriptor is the declarative record for one signal or a family of
// signals. Empty fields are absent. Descriptor is comparable and keys the
// path cache by value.
type Descriptor struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	Desc      string `yaml:"desc,omitempty" json:"desc,omitempty"`
	Units     string `yaml:"units,omitempty" json:"units,omitempty"`
	Axes      string `yaml:"axes,omitempty" json:"axes,omitempty"`
	AxesRefs  string `yaml:"axes_refs,omitempty" json:"axes_refs,omitempty"`
	MDSPath   string `yaml:"mdspath,omitempty" json:"mdspath,omitempty"`
	MDSNode   string `yaml:"mdsnode,omitempty" json:"mdsnode,omitempty"`
	MDSTree   string `yaml:"mdstree,omitempty" json:"mdstree,omitempty"`
	DimOf     string `yaml:"dim_of,omitempty" json:"dim_of,omitempty"`
	Error     string `yaml:"error,omitempty" json:"error,omitempty"`
	Range     string `yaml:"range,omitempty" json:"range,omitempty"`
	NameRange string `yaml:"namerange,omitempty" json:"namerange,omitempty"`
}

// Owner is the namespace node a descriptor belongs to. The inherited
// attributes report false when neither the node nor its ancestors set them.
type Owner interface {
	// TypeID identifies the owner's node type; descriptors owned by nodes of
	// the same type share path cache entries.
	TypeID() string
	Units() (string, bool)
	MDSPath() (string, bool)
	MDSTree() (string, bool)
}

// Spec is the resolved metadata for one signal.
type Spec struct {
	Name      string   `json:"name"`
	Title     string   `json:"title,omitempty"`
	Desc      string   `json:"desc,omitempty"`
	Units     string   `json:"units,omitempty"`
	Axes      []string `json:"axes"`
	Transpose []int    `json:"transpose,omitempty"`
	AxesRefs  []string `json:"axes_refs,omitempty"`
	Path      string   `json:"path"`
	Tree      string   `json:"tree,omitempty"`
	DimOf     *int     `json:"dim_of,omitempty"`
	Error     string   `json:"error,omitempty"`
	Owner     Owner    `json:"-"`
}
