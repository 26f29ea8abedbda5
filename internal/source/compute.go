package source

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/jblievremont/sonarqube/internal/contract"
)

// LineReader contributes one facet of the report to each composite line.
// Read is called once per line, in ascending line order.
type LineReader interface {
	Read(line *Line) error
}

// ComputeFileSourceData merges the raw lines of one file with its facet readers.
type ComputeFileSourceData struct {
	lines         contract.CloseableIterator[string]
	readers       []LineReader
	numberOfLines int
}

// NewComputeFileSourceData prepares a merge over lines. numberOfLines is the line
// count declared by the report; missing trailing lines are added as empty lines.
func NewComputeFileSourceData(lines contract.CloseableIterator[string], readers []LineReader, numberOfLines int) *ComputeFileSourceData {
	return &ComputeFileSourceData{
		lines:         lines,
		readers:       readers,
		numberOfLines: numberOfLines,
	}
}

// Compute runs the merge in a single pass over the raw lines.
// Facet data left after the last line is ignored.
func (c *ComputeFileSourceData) Compute() (*FileSourceData, error) {
	data := &FileSourceData{}
	digest := md5.New()

	current := 0
	hasNext := c.lines.Next()
	for hasNext {
		text := c.lines.Value()
		hasNext = c.lines.Next()
		current++
		more := hasNext || current < c.numberOfLines
		if err := c.read(data, digest, current, text, more); err != nil {
			return nil, err
		}
	}
	if err := c.lines.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source lines: %w", err)
	}
	for current < c.numberOfLines {
		current++
		if err := c.read(data, digest, current, "", current < c.numberOfLines); err != nil {
			return nil, err
		}
	}

	data.SrcHash = hex.EncodeToString(digest.Sum(nil))
	return data, nil
}

func (c *ComputeFileSourceData) read(data *FileSourceData, digest hash.Hash, number int, text string, more bool) error {
	data.LineHashes = append(data.LineHashes, LineHash(text))
	_, _ = io.WriteString(digest, text)
	if more {
		_, _ = io.WriteString(digest, "\n")
	}

	line := Line{Line: number, Source: text}
	for _, reader := range c.readers {
		if err := reader.Read(&line); err != nil {
			return fmt.Errorf("failed to read line %d: %w", number, err)
		}
	}
	data.Lines = append(data.Lines, line)
	return nil
}
