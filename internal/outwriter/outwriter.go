// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/fatih/color"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRunSummary prints the outcome of an analysis run using the configured output format.
func (ow *OutWriter) WriteRunSummary(summary schema.RunSummary, cfg *contract.Config) error {
	return PrintRunSummary(summary, cfg)
}

// WriteStoreStatus prints store status using the configured output format.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}

// WriteExportSummary prints where an export was written.
func (ow *OutWriter) WriteExportSummary(summary schema.ExportSummary, cfg *contract.Config) error {
	return PrintExportSummary(summary, cfg)
}

// ConfigureColors turns colors off when disabled in config or when stdout is not a terminal.
func ConfigureColors(cfg *contract.Config) {
	color.NoColor = !cfg.UseColors || !term.IsTerminal(int(os.Stdout.Fd()))
}
