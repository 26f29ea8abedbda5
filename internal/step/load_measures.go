package step

import (
	"context"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/measure"
	"github.com/jblievremont/sonarqube/internal/rule"
	"github.com/jblievremont/sonarqube/internal/telemetry"
)

// LoadMeasuresStep converts the raw measures of every component and keeps them
// in the measure repository.
type LoadMeasuresStep struct {
	tree       *component.TreeRootHolder
	report     contract.ReportReader
	references contract.ReferenceStore
	repository *measure.Repository
	metrics    *telemetry.Metrics
}

func NewLoadMeasuresStep(tree *component.TreeRootHolder, report contract.ReportReader,
	references contract.ReferenceStore, repository *measure.Repository, metrics *telemetry.Metrics) *LoadMeasuresStep {
	return &LoadMeasuresStep{tree: tree, report: report, references: references, repository: repository, metrics: metrics}
}

func (s *LoadMeasuresStep) Description() string {
	return "Load measures"
}

func (s *LoadMeasuresStep) Execute(ctx context.Context) error {
	root, err := s.tree.Root()
	if err != nil {
		return err
	}
	metrics, err := measure.LoadMetricRepository(ctx, s.references)
	if err != nil {
		return err
	}
	converter := measure.NewBatchMeasureConverter(rule.NewCache(s.references))

	before := s.repository.Count()
	visitor := &component.TypeAwareVisitor{
		Order: component.PreOrder,
		VisitAny: func(ctx context.Context, c *component.Component) error {
			if err := s.loadComponent(ctx, c, metrics, converter); err != nil {
				return fmt.Errorf("failed to load measures of %s: %w", c.Key(), err)
			}
			return nil
		},
	}
	if err := visitor.Visit(ctx, root); err != nil {
		return err
	}

	loaded := s.repository.Count() - before
	s.metrics.AddMeasures(loaded)
	logging.FromContext(ctx).Debug("Measures loaded", logging.FieldMeasures, loaded)
	return nil
}

func (s *LoadMeasuresStep) loadComponent(ctx context.Context, c *component.Component,
	metrics contract.MetricRepository, converter *measure.BatchMeasureConverter) error {
	raws, err := s.report.ReadComponentMeasures(c.Ref())
	if err != nil {
		return err
	}
	for i := range raws {
		raw := &raws[i]
		metric, err := metrics.GetByKey(raw.MetricKey)
		if err != nil {
			return err
		}
		m, ok, err := converter.ToMeasure(ctx, raw, metric)
		if err != nil {
			return fmt.Errorf("measure %s: %w", raw.MetricKey, err)
		}
		if !ok {
			continue
		}
		if err := s.repository.Add(c, metric, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *LoadMeasuresStep) Counts() map[string]int {
	return map[string]int{"measures": s.repository.Count()}
}
