package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintStoreStatus outputs store status in the configured format.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"property", "value"}, statusRows(status, false))
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusTable(w, status)
		}, "Wrote table")
	}
}

// statusRows lists the status properties. Human mode formats sizes and dates for reading.
func statusRows(status schema.StoreStatus, human bool) [][]string {
	rows := [][]string{
		{"backend", status.Backend},
		{"target", status.Target},
		{"connected", strconv.FormatBool(status.Connected)},
	}
	if !status.Connected {
		return rows
	}
	rows = append(rows,
		[]string{"schema_version", strconv.FormatUint(uint64(status.SchemaVersion), 10)},
		[]string{"dirty", strconv.FormatBool(status.Dirty)},
	)
	if human {
		rows = append(rows,
			[]string{"file_sources", humanize.Comma(status.TotalFileSources)},
			[]string{"binary_data", humanize.Bytes(uint64(max(status.TotalBinaryBytes, 0)))},
		)
		if !status.LastUpdateTime.IsZero() {
			rows = append(rows, []string{"last_update", fmt.Sprintf("%s (%s)",
				status.LastUpdateTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastUpdateTime))})
		}
		return rows
	}
	rows = append(rows,
		[]string{"file_sources", strconv.FormatInt(status.TotalFileSources, 10)},
		[]string{"binary_data_bytes", strconv.FormatInt(status.TotalBinaryBytes, 10)},
	)
	if !status.LastUpdateTime.IsZero() {
		rows = append(rows, []string{"last_update", status.LastUpdateTime.UTC().Format("2006-01-02T15:04:05Z")})
	}
	return rows
}

func writeStatusTable(w io.Writer, status schema.StoreStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Property", "Value"})
	if err := table.Bulk(statusRows(status, true)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(status.TableSizes) == 0 {
		return nil
	}

	names := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		names = append(names, name)
	}
	sort.Strings(names)

	sizes := tablewriter.NewWriter(w)
	sizes.Header([]string{"Table", "Rows"})
	var data [][]string
	for _, name := range names {
		data = append(data, []string{name, humanize.Comma(status.TableSizes[name])})
	}
	if err := sizes.Bulk(data); err != nil {
		return err
	}
	return sizes.Render()
}
