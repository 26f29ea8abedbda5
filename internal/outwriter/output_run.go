package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunSummary outputs the steps of a run in the configured format.
func PrintRunSummary(summary schema.RunSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunCSV(w, summary)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(w, summary)
		}, "Wrote table")
	}
}

func writeRunCSV(w io.Writer, summary schema.RunSummary) error {
	rows := make([][]string, 0, len(summary.Steps))
	for i, st := range summary.Steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			st.Description,
			strconv.FormatInt(st.Duration.Milliseconds(), 10),
			formatCounts(st.Counts, false),
		})
	}
	return writeCSVWithHeader(w, []string{"order", "step", "duration_ms", "counts"}, rows)
}

func writeRunTable(w io.Writer, summary schema.RunSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Step", "Duration", "Details"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, st := range summary.Steps {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			st.Description,
			formatDuration(st.Duration),
			formatCounts(st.Counts, true),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	gate := summary.QualityGate
	if gate == "" {
		gate = "none"
	}
	if _, err := fmt.Fprintf(w, "Project %s: %s measures, quality gate: %s\n",
		summary.ProjectKey, humanize.Comma(int64(summary.Measures)), gate); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %s. Backend: %s\n", formatDuration(summary.Duration), summary.Backend)
	return err
}

// formatCounts renders counts as "key=value" pairs sorted by key. Outcomes come first,
// in display order, and are colored when colored is set.
func formatCounts(counts map[string]int, colored bool) string {
	if len(counts) == 0 {
		return ""
	}
	var parts []string
	seen := make(map[string]bool)
	for _, outcome := range schema.AllOutcomes {
		n, ok := counts[string(outcome)]
		if !ok {
			continue
		}
		seen[string(outcome)] = true
		label := string(outcome)
		if colored {
			label = contract.GetColorLabel(outcome)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", label, humanize.Comma(int64(n))))
	}

	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, fmt.Sprintf("%s=%s", k, humanize.Comma(int64(counts[k]))))
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
