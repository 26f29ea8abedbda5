package core

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/report"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "report")
	w, err := report.NewWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteMetadata(schema.Metadata{ProjectKey: "p", RootComponentRef: 1}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 1, Type: schema.ProjectType, Key: "p", UUID: "uuid-p", ChildRefs: []int{2}}))
	require.NoError(t, w.WriteComponent(schema.ComponentMetadata{Ref: 2, Type: schema.FileType, Key: "p:main.go", UUID: "uuid-main", Lines: 2}))
	require.NoError(t, w.WriteSource(2, []string{"package main", ""}))
	require.NoError(t, w.WriteMeasures(1, []schema.RawMeasure{{MetricKey: "ncloc", IntValue: new(int32)}}))
	return dir
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), schema.NoneBackend, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunAnalysis(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	st := openStore(t)
	gateID, err := st.InsertQualityGate(ctx, "Sonar way")
	require.NoError(t, err)

	cfg := &contract.Config{
		ReportDir: writeReport(t),
		Settings:  map[string]string{schema.QualityGateProperty: strconv.FormatInt(gateID, 10)},
	}
	summary, err := RunAnalysis(ctx, cfg, st, telemetry.New())
	require.NoError(t, err)

	assert.Equal(t, "p", summary.ProjectKey)
	assert.Equal(t, "Sonar way", summary.QualityGate)
	assert.Equal(t, "none", summary.Backend)
	assert.Equal(t, 1, summary.Measures)
	require.Len(t, summary.Steps, 5)
	assert.Equal(t, map[string]int{"inserted": 1}, summary.Steps[4].Counts)

	again, err := RunAnalysis(ctx, cfg, st, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"unchanged": 1}, again.Steps[4].Counts)
}

func TestRunAnalysis_PartialSummaryOnFailure(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	dir := writeReport(t)
	w, err := report.NewWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteMeasures(2, []schema.RawMeasure{{MetricKey: "unknown_metric"}}))

	summary, err := RunAnalysis(ctx, &contract.Config{ReportDir: dir}, openStore(t), nil)
	assert.ErrorContains(t, err, `step "Load measures" failed`)
	assert.Equal(t, "p", summary.ProjectKey)
	assert.Len(t, summary.Steps, 3)
}

func TestRunAnalysis_RequiresReportDir(t *testing.T) {
	_, err := RunAnalysis(context.Background(), &contract.Config{}, openStore(t), nil)
	assert.ErrorContains(t, err, "report directory is required")
}

func TestShouldSuppressHeader(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(context.Background())))
}
