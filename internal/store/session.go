package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

// ErrSessionClosed is returned for any use of a closed session.
var ErrSessionClosed = errors.New("session is closed")

// Session is a unit of work on the store. It lazily begins a transaction with its
// first statement; Commit ends it and the next statement begins a new one.
// A Session must not be shared between goroutines.
type Session struct {
	store  *Store
	tx     *sql.Tx
	closed bool
}

var _ contract.DbSession = &Session{} // Compile-time check

func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.tx == nil {
		tx, err := s.store.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// Commit makes the pending writes visible. Committing with no pending work is a no-op.
func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close discards uncommitted work. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// SelectHashesForProject returns the hashes of every stored file of a project, by file uuid.
func (s *Session) SelectHashesForProject(ctx context.Context, projectUUID string, dataType schema.DataType) (map[string]schema.FileSourceRecord, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	query := s.store.query(`SELECT id, file_uuid, line_hashes, data_hash, src_hash, created_at, updated_at
		FROM %s WHERE project_uuid = ? AND data_type = ?`, fileSourcesTable)
	rows, err := tx.QueryContext(ctx, query, projectUUID, string(dataType))
	if err != nil {
		return nil, fmt.Errorf("failed to query file source hashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make(map[string]schema.FileSourceRecord)
	for rows.Next() {
		record := schema.FileSourceRecord{ProjectUUID: projectUUID, DataType: dataType}
		if err := rows.Scan(&record.ID, &record.FileUUID, &record.LineHashes, &record.DataHash,
			&record.SrcHash, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file source hashes: %w", err)
		}
		results[record.FileUUID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file source hashes: %w", err)
	}
	return results, nil
}

// SelectFileSource returns the complete stored row of one file.
func (s *Session) SelectFileSource(ctx context.Context, fileUUID string, dataType schema.DataType) (schema.FileSourceRecord, bool, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return schema.FileSourceRecord{}, false, err
	}

	query := s.store.query(`SELECT id, project_uuid, binary_data, line_hashes, data_hash, src_hash, created_at, updated_at
		FROM %s WHERE file_uuid = ? AND data_type = ?`, fileSourcesTable)
	record := schema.FileSourceRecord{FileUUID: fileUUID, DataType: dataType}
	err = tx.QueryRowContext(ctx, query, fileUUID, string(dataType)).Scan(&record.ID, &record.ProjectUUID,
		&record.BinaryData, &record.LineHashes, &record.DataHash, &record.SrcHash, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.FileSourceRecord{}, false, nil
	}
	if err != nil {
		return schema.FileSourceRecord{}, false, fmt.Errorf("failed to select file source %s: %w", fileUUID, err)
	}
	return record, true, nil
}

// InsertFileSource inserts a new row and sets record.ID.
func (s *Session) InsertFileSource(ctx context.Context, record *schema.FileSourceRecord) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	query := s.store.query(`INSERT INTO %s (project_uuid, file_uuid, data_type, binary_data, line_hashes,
		data_hash, src_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, fileSourcesTable)
	id, err := s.store.insertReturningID(ctx, tx, query,
		record.ProjectUUID, record.FileUUID, string(record.DataType), record.BinaryData, record.LineHashes,
		record.DataHash, record.SrcHash, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert file source %s: %w", record.FileUUID, err)
	}
	record.ID = id
	return nil
}

// UpdateFileSource rewrites the payload, hashes and update date of an existing row.
func (s *Session) UpdateFileSource(ctx context.Context, record *schema.FileSourceRecord) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	query := s.store.query(`UPDATE %s SET binary_data = ?, line_hashes = ?, data_hash = ?, src_hash = ?, updated_at = ?
		WHERE file_uuid = ? AND data_type = ?`, fileSourcesTable)
	if _, err := tx.ExecContext(ctx, query, record.BinaryData, record.LineHashes, record.DataHash,
		record.SrcHash, record.UpdatedAt, record.FileUUID, string(record.DataType)); err != nil {
		return fmt.Errorf("failed to update file source %s: %w", record.FileUUID, err)
	}
	return nil
}

// SelectEnabledCharacteristics returns the enabled debt characteristics ordered by id.
func (s *Session) SelectEnabledCharacteristics(ctx context.Context) ([]schema.CharacteristicRow, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	query := s.store.query(`SELECT id, kee, name, parent_id FROM %s WHERE enabled = ? ORDER BY id`, characteristicsTable)
	rows, err := tx.QueryContext(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query characteristics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CharacteristicRow
	for rows.Next() {
		var row schema.CharacteristicRow
		var parentID sql.NullInt64
		if err := rows.Scan(&row.ID, &row.Key, &row.Name, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan characteristic: %w", err)
		}
		if parentID.Valid {
			id := int(parentID.Int64)
			row.ParentID = &id
		}
		row.Enabled = true
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating characteristics: %w", err)
	}
	return results, nil
}
