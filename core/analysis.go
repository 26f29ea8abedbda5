// Package core runs analyses of batch reports.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/report"
	"github.com/jblievremont/sonarqube/internal/step"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
)

// RunAnalysis runs every computation step over the report directory of cfg.
// The summary describes the steps that completed, also when an error is returned.
func RunAnalysis(ctx context.Context, cfg *contract.Config, st contract.AnalysisStore, metrics *telemetry.Metrics) (schema.RunSummary, error) {
	if cfg.ReportDir == "" {
		return schema.RunSummary{}, errors.New("report directory is required")
	}
	if !shouldSuppressHeader(ctx) {
		logging.FromContext(ctx).Info("Analyzing batch report",
			logging.FieldReportDir, cfg.ReportDir, logging.FieldBackend, st.Backend())
	}

	start := time.Now()
	holders := step.NewHolders()
	deps := step.Dependencies{
		Report:     report.NewReader(cfg.ReportDir),
		DB:         st,
		References: st,
		Settings:   cfg.Settings,
		Metrics:    metrics,
	}
	results, err := step.NewExecutor(metrics, step.ComputationSteps(deps, holders)...).Execute(ctx)

	summary := schema.RunSummary{
		ReportDir: cfg.ReportDir,
		Backend:   string(st.Backend()),
		Steps:     results,
		Measures:  holders.Measures.Count(),
		Duration:  time.Since(start),
	}
	if root, rootErr := holders.Tree.Root(); rootErr == nil {
		summary.ProjectKey = root.Key()
	}
	if gate, ok, gateErr := holders.QualityGate.QualityGate(); gateErr == nil && ok {
		summary.QualityGate = gate.Name
	}
	return summary, err
}
