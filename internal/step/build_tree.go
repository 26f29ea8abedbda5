package step

import (
	"context"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/schema"
)

// BuildComponentTreeStep reads the components of the report and sets the tree root.
type BuildComponentTreeStep struct {
	report contract.ReportReader
	tree   *component.TreeRootHolder
	count  int
}

func NewBuildComponentTreeStep(report contract.ReportReader, tree *component.TreeRootHolder) *BuildComponentTreeStep {
	return &BuildComponentTreeStep{report: report, tree: tree}
}

func (s *BuildComponentTreeStep) Description() string {
	return "Build tree of components"
}

func (s *BuildComponentTreeStep) Execute(ctx context.Context) error {
	meta, err := s.report.ReadMetadata()
	if err != nil {
		return err
	}
	root, err := s.build(meta.RootComponentRef, make(map[int]bool))
	if err != nil {
		return err
	}
	if root.Type() != schema.ProjectType {
		return fmt.Errorf("root component %d is a %s, not a %s", root.Ref(), root.Type(), schema.ProjectType)
	}
	if err := s.tree.SetRoot(root); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("Component tree built",
		logging.FieldProject, root.Key(), logging.FieldComponent, s.count)
	return nil
}

func (s *BuildComponentTreeStep) build(ref int, seen map[int]bool) (*component.Component, error) {
	if seen[ref] {
		return nil, fmt.Errorf("component %d is referenced more than once", ref)
	}
	seen[ref] = true

	meta, err := s.report.ReadComponent(ref)
	if err != nil {
		return nil, err
	}
	if _, ok := schema.ValidComponentTypes[meta.Type]; !ok {
		return nil, fmt.Errorf("component %d has unsupported type %q", ref, meta.Type)
	}

	builder := component.NewBuilder(meta.Type, meta.Ref).UUID(meta.UUID).Key(meta.Key)
	for _, childRef := range meta.ChildRefs {
		child, err := s.build(childRef, seen)
		if err != nil {
			return nil, err
		}
		builder.AddChildren(child)
	}
	s.count++
	return builder.Build(), nil
}

func (s *BuildComponentTreeStep) Counts() map[string]int {
	return map[string]int{"components": s.count}
}
