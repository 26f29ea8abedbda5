// Package component models the analysed project as a tree of components.
package component

import (
	"fmt"

	"github.com/jblievremont/sonarqube/schema"
)

// Component is one node of the tree: a project, module, directory or file.
// A Component is immutable once built.
type Component struct {
	typ      schema.ComponentType
	ref      int
	uuid     string
	key      string
	children []*Component
	parent   *Component
}

// Type returns the kind of component.
func (c *Component) Type() schema.ComponentType { return c.typ }

// Ref returns the report reference, unique within one report.
func (c *Component) Ref() int { return c.ref }

// UUID returns the identity of the component, stable across analyses.
func (c *Component) UUID() string { return c.uuid }

// Key returns the human readable key of the component.
func (c *Component) Key() string { return c.key }

// Children returns the direct children, in report order.
func (c *Component) Children() []*Component { return c.children }

// Parent returns the enclosing component, or nil for the root.
func (c *Component) Parent() *Component { return c.parent }

func (c *Component) String() string {
	return fmt.Sprintf("%s[ref=%d, key=%s]", c.typ, c.ref, c.key)
}

// Builder assembles a Component and wires the parent links of its children.
type Builder struct {
	c *Component
}

// NewBuilder starts a component of the given type and ref.
func NewBuilder(typ schema.ComponentType, ref int) *Builder {
	return &Builder{c: &Component{typ: typ, ref: ref}}
}

// UUID sets the uuid of the component.
func (b *Builder) UUID(uuid string) *Builder {
	b.c.uuid = uuid
	return b
}

// Key sets the key of the component.
func (b *Builder) Key(key string) *Builder {
	b.c.key = key
	return b
}

// AddChildren appends children; their parent becomes the component being built.
func (b *Builder) AddChildren(children ...*Component) *Builder {
	b.c.children = append(b.c.children, children...)
	return b
}

// Build returns the component. The builder must not be reused afterwards.
func (b *Builder) Build() *Component {
	c := b.c
	for _, child := range c.children {
		child.parent = c
	}
	b.c = nil
	return c
}

// depth orders component types from the root downwards.
func depth(t schema.ComponentType) int {
	switch t {
	case schema.ProjectType:
		return 0
	case schema.ModuleType:
		return 1
	case schema.DirectoryType:
		return 2
	case schema.FileType:
		return 3
	default:
		return 4
	}
}
