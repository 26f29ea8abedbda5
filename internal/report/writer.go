package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jblievremont/sonarqube/schema"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Writer produces a report directory that Reader can read back.
type Writer struct {
	dir string
}

// NewWriter creates dir when needed and returns a Writer into it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) WriteMetadata(meta schema.Metadata) error {
	return writeYAML(filepath.Join(w.dir, metadataFile), meta)
}

func (w *Writer) WriteComponent(c schema.ComponentMetadata) error {
	return writeYAML(filePath(w.dir, componentPrefix, c.Ref), c)
}

// WriteSource writes lines joined by newlines, without a trailing newline.
func (w *Writer) WriteSource(ref int, lines []string) error {
	return os.WriteFile(filePath(w.dir, sourcePrefix, ref), []byte(strings.Join(lines, "\n")), 0o644)
}

func (w *Writer) WriteCoverage(ref int, records []schema.Coverage) error {
	return writeStream(filePath(w.dir, coveragePrefix, ref), records)
}

func (w *Writer) WriteChangesets(ref int, changesets schema.Changesets) error {
	return writeMsgpack(filePath(w.dir, changesetsPrefix, ref), changesets)
}

func (w *Writer) WriteSyntaxHighlighting(ref int, rules []schema.SyntaxHighlighting) error {
	return writeStream(filePath(w.dir, highlightingPrefix, ref), rules)
}

func (w *Writer) WriteSymbols(ref int, symbols []schema.Symbol) error {
	return writeMsgpack(filePath(w.dir, symbolsPrefix, ref), symbols)
}

func (w *Writer) WriteDuplications(ref int, duplications []schema.Duplication) error {
	return writeMsgpack(filePath(w.dir, duplicationsPrefix, ref), duplications)
}

func (w *Writer) WriteMeasures(ref int, measures []schema.RawMeasure) error {
	return writeMsgpack(filePath(w.dir, measuresPrefix, ref), measures)
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeMsgpack(path string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeStream[T any](path string, records []T) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	buf := bufio.NewWriter(f)
	enc := msgpack.NewEncoder(buf)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("failed to encode record %d of %s: %w", i, path, err)
		}
	}
	return buf.Flush()
}
