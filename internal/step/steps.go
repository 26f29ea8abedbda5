package step

import (
	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/debt"
	"github.com/jblievremont/sonarqube/internal/measure"
	"github.com/jblievremont/sonarqube/internal/qualitygate"
	"github.com/jblievremont/sonarqube/internal/settings"
	"github.com/jblievremont/sonarqube/internal/telemetry"
)

// Holders are the in-memory results shared between the steps of one analysis.
type Holders struct {
	Tree        *component.TreeRootHolder
	Debt        *debt.Holder
	QualityGate *qualitygate.Holder
	Measures    *measure.Repository
}

func NewHolders() *Holders {
	return &Holders{
		Tree:        component.NewTreeRootHolder(),
		Debt:        debt.NewHolder(),
		QualityGate: qualitygate.NewHolder(),
		Measures:    measure.NewRepository(),
	}
}

// Dependencies are the collaborators the steps read from and write to.
type Dependencies struct {
	Report     contract.ReportReader
	DB         contract.DbClient
	References contract.ReferenceStore
	// Settings are global property defaults, overridden by stored properties.
	Settings map[string]string
	Metrics  *telemetry.Metrics
}

// ComputationSteps returns the steps of an analysis in execution order.
func ComputationSteps(deps Dependencies, holders *Holders) []ComputationStep {
	return []ComputationStep{
		NewBuildComponentTreeStep(deps.Report, holders.Tree),
		NewFeedDebtModelStep(deps.DB, holders.Debt),
		NewQualityGateLoadingStep(holders.Tree,
			settings.NewRepository(deps.References, deps.Settings),
			qualitygate.NewService(deps.References),
			holders.QualityGate),
		NewLoadMeasuresStep(holders.Tree, deps.Report, deps.References, holders.Measures, deps.Metrics),
		NewPersistFileSourcesStep(deps.DB, holders.Tree, deps.Report, deps.Metrics),
	}
}
