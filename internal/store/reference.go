package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jblievremont/sonarqube/schema"
)

// SelectRuleByKey looks a rule up by repository and key.
func (s *Store) SelectRuleByKey(ctx context.Context, key schema.RuleKey) (schema.RuleRow, bool, error) {
	query := s.query(`SELECT id FROM %s WHERE plugin_name = ? AND plugin_rule_key = ?`, rulesTable)
	row := schema.RuleRow{Key: key}
	err := s.db.QueryRowContext(ctx, query, key.Repository, key.Rule).Scan(&row.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.RuleRow{}, false, nil
	}
	if err != nil {
		return schema.RuleRow{}, false, fmt.Errorf("failed to select rule %s: %w", key, err)
	}
	return row, true, nil
}

// SelectQualityGateByID looks a quality gate up by id.
func (s *Store) SelectQualityGateByID(ctx context.Context, id int64) (schema.QualityGate, bool, error) {
	query := s.query(`SELECT id, name FROM %s WHERE id = ?`, qualityGatesTable)
	var gate schema.QualityGate
	err := s.db.QueryRowContext(ctx, query, id).Scan(&gate.ID, &gate.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.QualityGate{}, false, nil
	}
	if err != nil {
		return schema.QualityGate{}, false, fmt.Errorf("failed to select quality gate %d: %w", id, err)
	}
	return gate, true, nil
}

// SelectEnabledMetrics returns every enabled metric ordered by id.
func (s *Store) SelectEnabledMetrics(ctx context.Context) ([]schema.Metric, error) {
	query := s.query(`SELECT id, metric_key, val_type FROM %s WHERE enabled = ? ORDER BY id`, metricsTable)
	rows, err := s.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []schema.Metric
	for rows.Next() {
		var m schema.Metric
		var valueType string
		if err := rows.Scan(&m.ID, &m.Key, &valueType); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		m.ValueType = schema.ValueType(valueType)
		m.Enabled = true
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics: %w", err)
	}
	return metrics, nil
}

// SelectProperties returns the global properties overlaid with the ones set on projectKey.
func (s *Store) SelectProperties(ctx context.Context, projectKey string) (map[string]string, error) {
	query := s.query(`SELECT prop_key, resource_key, text_value FROM %s
		WHERE resource_key IS NULL OR resource_key = ? ORDER BY id`, propertiesTable)
	rows, err := s.db.QueryContext(ctx, query, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	global := make(map[string]string)
	project := make(map[string]string)
	for rows.Next() {
		var key, value string
		var resourceKey sql.NullString
		if err := rows.Scan(&key, &resourceKey, &value); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		if resourceKey.Valid {
			project[key] = value
		} else {
			global[key] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	for k, v := range project {
		global[k] = v
	}
	return global, nil
}

// InsertRule registers a rule and returns its id.
func (s *Store) InsertRule(ctx context.Context, key schema.RuleKey) (int, error) {
	query := s.query(`INSERT INTO %s (plugin_name, plugin_rule_key) VALUES (?, ?)`, rulesTable)
	id, err := s.insertReturningID(ctx, s.db, query, key.Repository, key.Rule)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rule %s: %w", key, err)
	}
	return int(id), nil
}

// InsertQualityGate registers a quality gate and returns its id.
func (s *Store) InsertQualityGate(ctx context.Context, name string) (int64, error) {
	query := s.query(`INSERT INTO %s (name) VALUES (?)`, qualityGatesTable)
	id, err := s.insertReturningID(ctx, s.db, query, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert quality gate %q: %w", name, err)
	}
	return id, nil
}

// InsertCharacteristic registers a debt characteristic and returns its id.
func (s *Store) InsertCharacteristic(ctx context.Context, row schema.CharacteristicRow) (int, error) {
	query := s.query(`INSERT INTO %s (kee, name, parent_id, enabled) VALUES (?, ?, ?, ?)`, characteristicsTable)
	var parentID any
	if row.ParentID != nil {
		parentID = *row.ParentID
	}
	id, err := s.insertReturningID(ctx, s.db, query, row.Key, row.Name, parentID, row.Enabled)
	if err != nil {
		return 0, fmt.Errorf("failed to insert characteristic %s: %w", row.Key, err)
	}
	return int(id), nil
}

// SetProperty stores a property. A nil resourceKey makes it global.
func (s *Store) SetProperty(ctx context.Context, key string, resourceKey *string, value string) error {
	deleteQuery := s.query(`DELETE FROM %s WHERE prop_key = ? AND resource_key IS NULL`, propertiesTable)
	deleteArgs := []any{key}
	if resourceKey != nil {
		deleteQuery = s.query(`DELETE FROM %s WHERE prop_key = ? AND resource_key = ?`, propertiesTable)
		deleteArgs = append(deleteArgs, *resourceKey)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("failed to replace property %s: %w", key, err)
	}
	var resource any
	if resourceKey != nil {
		resource = *resourceKey
	}
	insertQuery := s.query(`INSERT INTO %s (prop_key, resource_key, text_value) VALUES (?, ?, ?)`, propertiesTable)
	if _, err := tx.ExecContext(ctx, insertQuery, key, resource, value); err != nil {
		return fmt.Errorf("failed to insert property %s: %w", key, err)
	}
	return tx.Commit()
}
