// Package parquet provides data structures and functions for exporting persisted
// file sources to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/jblievremont/sonarqube/internal/source"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/parquet-go/parquet-go"
)

// FileSource represents one row of the file_sources table, without its payload.
type FileSource struct {
	ProjectUUID string    `parquet:"project_uuid,snappy"`
	FileUUID    string    `parquet:"file_uuid,snappy"`
	DataType    string    `parquet:"data_type,snappy,dict"`
	LineCount   int32     `parquet:"line_count,snappy"`
	BinaryBytes int64     `parquet:"binary_bytes,snappy"`
	DataHash    string    `parquet:"data_hash,snappy"`
	SrcHash     string    `parquet:"src_hash,snappy"`
	CreatedAt   time.Time `parquet:"created_at,snappy"`
	UpdatedAt   time.Time `parquet:"updated_at,snappy"`
}

// FileLine is one decoded line of a stored file source.
type FileLine struct {
	FileUUID string `parquet:"file_uuid,snappy,dict"`
	Line     int32  `parquet:"line,snappy"`
	Source   string `parquet:"source,snappy"`

	ScmRevision *string `parquet:"scm_revision,optional,snappy"`
	ScmAuthor   *string `parquet:"scm_author,optional,snappy,dict"`
	ScmDate     *int64  `parquet:"scm_date,optional,snappy"`

	UtLineHits      *int32 `parquet:"ut_line_hits,optional,snappy"`
	ItLineHits      *int32 `parquet:"it_line_hits,optional,snappy"`
	OverallLineHits *int32 `parquet:"overall_line_hits,optional,snappy"`

	Highlighting *string `parquet:"highlighting,optional,snappy"`
	Symbols      *string `parquet:"symbols,optional,snappy"`
	Duplications []int32 `parquet:"duplications,list"`
}

// WriteFileSourcesParquet writes file source rows to a Parquet file.
func WriteFileSourcesParquet(data []FileSource, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileLinesParquet writes decoded lines to a Parquet file.
func WriteFileLinesParquet(data []FileLine, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ConvertFileSourceRecord converts a stored row for Parquet export. lines is the
// number of lines of the decoded payload.
func ConvertFileSourceRecord(record schema.FileSourceRecord, lines int) (FileSource, error) {
	lineCount, err := safecast.Conv[int32](lines)
	if err != nil {
		return FileSource{}, fmt.Errorf("line count of %s: %w", record.FileUUID, err)
	}
	return FileSource{
		ProjectUUID: record.ProjectUUID,
		FileUUID:    record.FileUUID,
		DataType:    string(record.DataType),
		LineCount:   lineCount,
		BinaryBytes: int64(len(record.BinaryData)),
		DataHash:    record.DataHash,
		SrcHash:     record.SrcHash,
		CreatedAt:   time.UnixMilli(record.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(record.UpdatedAt).UTC(),
	}, nil
}

// ConvertLines converts the decoded lines of one file for Parquet export.
func ConvertLines(fileUUID string, lines []source.Line) ([]FileLine, error) {
	result := make([]FileLine, 0, len(lines))
	for _, l := range lines {
		number, err := safecast.Conv[int32](l.Line)
		if err != nil {
			return nil, fmt.Errorf("line number of %s: %w", fileUUID, err)
		}
		var duplications []int32
		for _, d := range l.Duplications {
			id, err := safecast.Conv[int32](d)
			if err != nil {
				return nil, fmt.Errorf("duplication id of %s: %w", fileUUID, err)
			}
			duplications = append(duplications, id)
		}
		result = append(result, FileLine{
			FileUUID:        fileUUID,
			Line:            number,
			Source:          l.Source,
			ScmRevision:     l.ScmRevision,
			ScmAuthor:       l.ScmAuthor,
			ScmDate:         l.ScmDate,
			UtLineHits:      l.UtLineHits,
			ItLineHits:      l.ItLineHits,
			OverallLineHits: l.OverallLineHits,
			Highlighting:    l.Highlighting,
			Symbols:         l.Symbols,
			Duplications:    duplications,
		})
	}
	return result, nil
}
