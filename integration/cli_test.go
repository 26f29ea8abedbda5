//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jblievremont/sonarqube/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) []string {
	return []string{"CE_DB_BACKEND=sqlite", "CE_DB_CONNECT=" + filepath.Join(t.TempDir(), "ce.db")}
}

// TestCEWithSQLite runs the full cycle against a SQLite file.
func TestCEWithSQLite(t *testing.T) {
	exerciseBackend(t, sqliteEnv(t))
}

func TestCEExportAndMetrics(t *testing.T) {
	env := sqliteEnv(t)
	reportDir := filepath.Join(t.TempDir(), "report")
	writeSampleReport(t, reportDir, false)

	metricsFile := filepath.Join(t.TempDir(), "ce.prom")
	_, err := runCommand(t, env, "run", reportDir, "--metrics-file", metricsFile)
	require.NoError(t, err)
	metricsText, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), `ce_file_sources_total{outcome="inserted"} 2`)

	prefix := filepath.Join(t.TempDir(), "sources")
	out, err := runCommand(t, env, "sources", "export", "--output-file", prefix, "--output", "json", "--project-uuid", "uuid-sample")
	require.NoError(t, err)

	var summary schema.ExportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 3, summary.Lines)
	assert.FileExists(t, summary.FileSourcesPath)
	assert.FileExists(t, summary.FileLinesPath)
}

func TestCERejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing report dir", []string{"run"}},
		{"report dir does not exist", []string{"run", filepath.Join(t.TempDir(), "missing")}},
		{"invalid output", []string{"db", "status", "--output", "xml"}},
		{"invalid backend", []string{"db", "status", "--db-backend", "oracle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, sqliteEnv(t), tt.args...)
			assert.Error(t, err)
		})
	}
}
