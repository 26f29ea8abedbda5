package component

import (
	"context"

	"github.com/jblievremont/sonarqube/schema"
)

// Order tells a visitor whether a component is visited before or after its children.
type Order int

const (
	PreOrder Order = iota
	PostOrder
)

// VisitFunc is called for every component of a given type.
type VisitFunc func(ctx context.Context, c *Component) error

// TypeAwareVisitor walks a tree depth first and dispatches on the component type.
// Components deeper than MaxDepth are neither visited nor descended into.
// Nil hooks are skipped. The first error stops the walk.
type TypeAwareVisitor struct {
	MaxDepth schema.ComponentType
	Order    Order

	VisitProject   VisitFunc
	VisitModule    VisitFunc
	VisitDirectory VisitFunc
	VisitFile      VisitFunc
	// VisitAny runs for every visited component, before the typed hook.
	VisitAny VisitFunc
}

// Visit walks the tree rooted at c.
func (v *TypeAwareVisitor) Visit(ctx context.Context, c *Component) error {
	maxDepth := v.MaxDepth
	if maxDepth == "" {
		maxDepth = schema.FileType
	}
	return v.visit(ctx, c, depth(maxDepth))
}

func (v *TypeAwareVisitor) visit(ctx context.Context, c *Component, limit int) error {
	if depth(c.typ) > limit {
		return nil
	}
	if v.Order == PreOrder {
		if err := v.visitNode(ctx, c); err != nil {
			return err
		}
	}
	if depth(c.typ) < limit {
		for _, child := range c.children {
			if err := v.visit(ctx, child, limit); err != nil {
				return err
			}
		}
	}
	if v.Order == PostOrder {
		return v.visitNode(ctx, c)
	}
	return nil
}

func (v *TypeAwareVisitor) visitNode(ctx context.Context, c *Component) error {
	if v.VisitAny != nil {
		if err := v.VisitAny(ctx, c); err != nil {
			return err
		}
	}
	var hook VisitFunc
	switch c.typ {
	case schema.ProjectType:
		hook = v.VisitProject
	case schema.ModuleType:
		hook = v.VisitModule
	case schema.DirectoryType:
		hook = v.VisitDirectory
	case schema.FileType:
		hook = v.VisitFile
	}
	if hook == nil {
		return nil
	}
	return hook(ctx, c)
}
