package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

// PrintExportSummary reports the files written by an export. The export files
// themselves are the output, so the summary always goes to stdout.
func PrintExportSummary(summary schema.ExportSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile("", func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile("", func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"file_sources_path", "file_lines_path", "files", "lines"}, [][]string{{
				summary.FileSourcesPath, summary.FileLinesPath,
				strconv.Itoa(summary.Files), strconv.Itoa(summary.Lines),
			}})
		}, "Wrote CSV")
	default:
		return writeWithFile("", func(w io.Writer) error {
			return writeExportText(w, summary)
		}, "Wrote text")
	}
}

func writeExportText(w io.Writer, summary schema.ExportSummary) error {
	_, err := fmt.Fprintf(w, "Exported %s files to %s\nExported %s lines to %s\n",
		humanize.Comma(int64(summary.Files)), summary.FileSourcesPath,
		humanize.Comma(int64(summary.Lines)), summary.FileLinesPath)
	return err
}
