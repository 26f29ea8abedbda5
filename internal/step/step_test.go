package step

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jblievremont/sonarqube/internal/report"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	description string
	err         error
	runs        int
}

func (s *fakeStep) Execute(context.Context) error {
	s.runs++
	return s.err
}

func (s *fakeStep) Description() string { return s.description }

func TestExecutor_StopsAtFirstFailure(t *testing.T) {
	first := &fakeStep{description: "first"}
	failing := &fakeStep{description: "failing", err: errors.New("boom")}
	never := &fakeStep{description: "never"}

	results, err := NewExecutor(telemetry.New(), first, failing, never).Execute(context.Background())
	assert.EqualError(t, err, `step "failing" failed: boom`)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Description)
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, failing.runs)
	assert.Zero(t, never.runs)
}

func TestComputationSteps_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir, w := sampleReport(t)
	require.NoError(t, w.WriteMeasures(3, []schema.RawMeasure{{MetricKey: "ncloc", IntValue: ptr(int32(3))}}))

	db := openTestStore(t)
	gateID, err := db.InsertQualityGate(ctx, "Sonar way")
	require.NoError(t, err)

	deps := Dependencies{
		Report:     report.NewReader(dir),
		DB:         db,
		References: db,
		Settings:   map[string]string{schema.QualityGateProperty: strconv.FormatInt(gateID, 10)},
		Metrics:    telemetry.New(),
	}
	holders := NewHolders()
	steps := ComputationSteps(deps, holders)

	var descriptions []string
	for _, st := range steps {
		descriptions = append(descriptions, st.Description())
	}
	assert.Equal(t, []string{
		"Build tree of components",
		"Feed technical debt model",
		"Retrieve Quality Gate",
		"Load measures",
		"Persist file sources",
	}, descriptions)

	results, err := NewExecutor(deps.Metrics, steps...).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, map[string]int{"inserted": 2}, results[4].Counts)

	gate, ok, err := holders.QualityGate.QualityGate()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, gateID, gate.ID)
	assert.Equal(t, 1, holders.Measures.Count())

	// the debt model table is empty, so the holder is never fed
	assert.False(t, holders.Debt.IsInitialized())
}
