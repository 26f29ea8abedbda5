// Package source merges the raw lines of a file with its report facets into
// one composite record per line, and computes the hashes used to detect changes.
package source

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// Line is the composite record of one source line. Facet fields stay nil
// when no reader contributed to them.
type Line struct {
	Line   int    `msgpack:"line"`
	Source string `msgpack:"source"`

	ScmRevision *string `msgpack:"scm_revision,omitempty"`
	ScmAuthor   *string `msgpack:"scm_author,omitempty"`
	ScmDate     *int64  `msgpack:"scm_date,omitempty"`

	UtLineHits               *int32 `msgpack:"ut_line_hits,omitempty"`
	UtConditions             *int32 `msgpack:"ut_conditions,omitempty"`
	UtCoveredConditions      *int32 `msgpack:"ut_covered_conditions,omitempty"`
	ItLineHits               *int32 `msgpack:"it_line_hits,omitempty"`
	ItConditions             *int32 `msgpack:"it_conditions,omitempty"`
	ItCoveredConditions      *int32 `msgpack:"it_covered_conditions,omitempty"`
	OverallLineHits          *int32 `msgpack:"overall_line_hits,omitempty"`
	OverallConditions        *int32 `msgpack:"overall_conditions,omitempty"`
	OverallCoveredConditions *int32 `msgpack:"overall_covered_conditions,omitempty"`

	Highlighting *string `msgpack:"highlighting,omitempty"`
	Symbols      *string `msgpack:"symbols,omitempty"`
	Duplications []int   `msgpack:"duplications,omitempty"`
}

// FileSourceData is the result of merging a whole file.
type FileSourceData struct {
	SrcHash    string
	LineHashes []string
	Lines      []Line
}

// encodedPayload is what gets stored as binary data.
type encodedPayload struct {
	Lines []Line `msgpack:"lines"`
}

// Encode serializes the composite lines as msgpack inside an lz4 frame.
// The output is deterministic for identical lines.
func (d *FileSourceData) Encode() ([]byte, error) {
	raw, err := msgpack.Marshal(&encodedPayload{Lines: d.Lines})
	if err != nil {
		return nil, fmt.Errorf("failed to encode source lines: %w", err)
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to compress source lines: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress source lines: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) ([]Line, error) {
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress source lines: %w", err)
	}
	var payload encodedPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode source lines: %w", err)
	}
	return payload.Lines, nil
}

// LineHashesString joins the line hashes the way they are stored.
func (d *FileSourceData) LineHashesString() string {
	return JoinLineHashes(d.LineHashes)
}
