package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/parquet"
	"github.com/jblievremont/sonarqube/internal/source"
	"github.com/jblievremont/sonarqube/schema"
)

// ForEachFileSource streams every stored row, payload included, ordered by id.
func (s *Store) ForEachFileSource(ctx context.Context, projectUUID string, fn func(schema.FileSourceRecord) error) error {
	query := s.query(`SELECT id, project_uuid, file_uuid, data_type, binary_data, line_hashes, data_hash, src_hash,
		created_at, updated_at FROM %s`, fileSourcesTable)
	var args []any
	if projectUUID != "" {
		query += rebind(" WHERE project_uuid = ?", s.backend)
		args = append(args, projectUUID)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query file sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var record schema.FileSourceRecord
		var dataType string
		if err := rows.Scan(&record.ID, &record.ProjectUUID, &record.FileUUID, &dataType, &record.BinaryData,
			&record.LineHashes, &record.DataHash, &record.SrcHash, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan file source: %w", err)
		}
		record.DataType = schema.DataType(dataType)
		if err := fn(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating file sources: %w", err)
	}
	return nil
}

// ExportFileSources writes the stored file sources, optionally of one project, to
// "<outputFile>.file_sources.parquet" and their decoded lines to "<outputFile>.file_lines.parquet".
func (s *Store) ExportFileSources(ctx context.Context, projectUUID, outputFile string) (schema.ExportSummary, error) {
	if outputFile == "" {
		return schema.ExportSummary{}, errors.New("--output-file is required for export command")
	}

	var files []parquet.FileSource
	var lines []parquet.FileLine
	err := s.ForEachFileSource(ctx, projectUUID, func(record schema.FileSourceRecord) error {
		var decoded []source.Line
		if len(record.BinaryData) > 0 {
			var err error
			decoded, err = source.Decode(record.BinaryData)
			if err != nil {
				return fmt.Errorf("cannot decode sources of %s: %w", record.FileUUID, err)
			}
		}
		row, err := parquet.ConvertFileSourceRecord(record, len(decoded))
		if err != nil {
			return err
		}
		files = append(files, row)

		converted, err := parquet.ConvertLines(record.FileUUID, decoded)
		if err != nil {
			return err
		}
		lines = append(lines, converted...)
		return nil
	})
	if err != nil {
		return schema.ExportSummary{}, err
	}
	if len(files) == 0 {
		return schema.ExportSummary{}, errors.New("no file sources found to export")
	}

	result := schema.ExportSummary{
		ProjectUUID:     projectUUID,
		FileSourcesPath: outputFile + ".file_sources.parquet",
		FileLinesPath:   outputFile + ".file_lines.parquet",
		Files:           len(files),
		Lines:           len(lines),
	}
	if err := parquet.WriteFileSourcesParquet(files, result.FileSourcesPath); err != nil {
		return schema.ExportSummary{}, fmt.Errorf("failed to write file sources: %w", err)
	}
	if err := parquet.WriteFileLinesParquet(lines, result.FileLinesPath); err != nil {
		return schema.ExportSummary{}, fmt.Errorf("failed to write file lines: %w", err)
	}

	logging.FromContext(ctx).Info("Exported file sources", logging.FieldFiles, result.Files, logging.FieldLines, result.Lines)
	return result, nil
}
