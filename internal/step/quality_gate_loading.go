package step

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/qualitygate"
	"github.com/jblievremont/sonarqube/schema"
)

// QualityGateLoadingStep binds the quality gate configured for the project.
type QualityGateLoadingStep struct {
	tree     *component.TreeRootHolder
	settings contract.ProjectSettingsRepository
	gates    contract.QualityGateService
	holder   *qualitygate.Holder
}

func NewQualityGateLoadingStep(tree *component.TreeRootHolder, settings contract.ProjectSettingsRepository,
	gates contract.QualityGateService, holder *qualitygate.Holder) *QualityGateLoadingStep {
	return &QualityGateLoadingStep{tree: tree, settings: settings, gates: gates, holder: holder}
}

func (s *QualityGateLoadingStep) Description() string {
	return "Retrieve Quality Gate"
}

func (s *QualityGateLoadingStep) Execute(ctx context.Context) error {
	root, err := s.tree.Root()
	if err != nil {
		return err
	}
	visitor := &component.TypeAwareVisitor{
		MaxDepth:     schema.ProjectType,
		Order:        component.PreOrder,
		VisitProject: s.visitProject,
	}
	return visitor.Visit(ctx, root)
}

func (s *QualityGateLoadingStep) visitProject(ctx context.Context, project *component.Component) error {
	logger := logging.FromContext(ctx)
	settings, err := s.settings.GetProjectSettings(ctx, project.Key())
	if err != nil {
		return err
	}

	value := settings.GetString(schema.QualityGateProperty)
	if value == "" {
		logger.Debug("No quality gate is configured", logging.FieldProject, project.Key())
		return s.holder.SetNoQualityGate()
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("unsupported value (%s) in property %s: %w", value, schema.QualityGateProperty, err)
	}
	gate, found, err := s.gates.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		logger.Debug("Configured quality gate does not exist", logging.FieldProject, project.Key(), logging.FieldQualityGate, id)
		return s.holder.SetNoQualityGate()
	}
	logger.Debug("Quality gate loaded", logging.FieldProject, project.Key(), logging.FieldQualityGate, gate.Name)
	return s.holder.SetQualityGate(gate)
}
