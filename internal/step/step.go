// Package step holds the computation steps run over a batch report and the executor
// that chains them.
package step

import (
	"context"
	"fmt"
	"time"

	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
)

// ComputationStep is one unit of work of an analysis.
type ComputationStep interface {
	Execute(ctx context.Context) error
	Description() string
}

// Counter is implemented by steps that report what they did.
type Counter interface {
	Counts() map[string]int
}

// Executor runs steps in order and stops at the first failure.
type Executor struct {
	steps   []ComputationStep
	metrics *telemetry.Metrics
}

func NewExecutor(metrics *telemetry.Metrics, steps ...ComputationStep) *Executor {
	return &Executor{steps: steps, metrics: metrics}
}

// Execute runs every step. The results of the steps that completed are returned
// along with the error of the failing one.
func (e *Executor) Execute(ctx context.Context) ([]schema.StepResult, error) {
	logger := logging.FromContext(ctx)
	results := make([]schema.StepResult, 0, len(e.steps))
	for _, st := range e.steps {
		description := st.Description()
		logger.Debug("Starting step", logging.FieldStep, description)

		start := time.Now()
		err := st.Execute(ctx)
		duration := time.Since(start)
		e.metrics.ObserveStep(description, duration, err)

		if err != nil {
			logger.Error("Step failed", logging.FieldStep, description, logging.FieldError, err)
			return results, fmt.Errorf("step %q failed: %w", description, err)
		}

		result := schema.StepResult{Description: description, Duration: duration}
		if c, ok := st.(Counter); ok {
			result.Counts = c.Counts()
		}
		logger.Info(description, logging.FieldDuration, duration.Round(time.Millisecond))
		results = append(results, result)
	}
	return results, nil
}
