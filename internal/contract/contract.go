// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/jblievremont/sonarqube/schema"
)

// CloseableIterator is a forward-only sequence backed by a resource that must be
// released with Close, whether or not it was consumed to the end.
type CloseableIterator[T any] interface {
	// Next advances to the next element and reports whether there is one.
	Next() bool
	// Value returns the current element. Only valid after Next returned true.
	Value() T
	// Err returns the first error met while iterating.
	Err() error
	// Close releases the underlying resource. It is safe to call more than once.
	Close() error
}

// ReportReader gives access to the content of one batch report, by component ref.
// Optional facets come back as nil when the report has none for that component.
type ReportReader interface {
	ReadMetadata() (schema.Metadata, error)
	ReadComponent(ref int) (schema.ComponentMetadata, error)

	// --- Line oriented facets ---

	ReadFileSource(ref int) (CloseableIterator[string], error)
	ReadComponentCoverage(ref int) (CloseableIterator[schema.Coverage], error)
	ReadChangesets(ref int) (*schema.Changesets, error)
	ReadComponentSyntaxHighlighting(ref int) (CloseableIterator[schema.SyntaxHighlighting], error)
	ReadComponentSymbols(ref int) ([]schema.Symbol, error)
	ReadComponentDuplications(ref int) ([]schema.Duplication, error)

	// --- Scalar measurements ---

	ReadComponentMeasures(ref int) ([]schema.RawMeasure, error)
}

// DbClient opens scoped sessions on the persistence store.
type DbClient interface {
	OpenSession(ctx context.Context) (DbSession, error)
}

// DbSession is a unit of work on the store. Writes become visible on Commit;
// Close discards anything not committed. A session is owned by one goroutine.
type DbSession interface {
	// SelectHashesForProject returns the stored hashes of every file of a project,
	// keyed by file uuid. Binary payloads are not loaded.
	SelectHashesForProject(ctx context.Context, projectUUID string, dataType schema.DataType) (map[string]schema.FileSourceRecord, error)

	// SelectFileSource returns the full stored row of one file.
	SelectFileSource(ctx context.Context, fileUUID string, dataType schema.DataType) (schema.FileSourceRecord, bool, error)

	InsertFileSource(ctx context.Context, record *schema.FileSourceRecord) error
	UpdateFileSource(ctx context.Context, record *schema.FileSourceRecord) error

	SelectEnabledCharacteristics(ctx context.Context) ([]schema.CharacteristicRow, error)

	Commit() error
	Close() error
}

// ReferenceStore reads reference data rows that never change during a run.
type ReferenceStore interface {
	SelectRuleByKey(ctx context.Context, key schema.RuleKey) (schema.RuleRow, bool, error)
	SelectQualityGateByID(ctx context.Context, id int64) (schema.QualityGate, bool, error)
	SelectEnabledMetrics(ctx context.Context) ([]schema.Metric, error)
	// SelectProperties returns global properties overlaid with the ones of projectKey.
	SelectProperties(ctx context.Context, projectKey string) (map[string]string, error)
}

// RuleCache resolves rule keys to rule rows.
type RuleCache interface {
	GetByKey(ctx context.Context, key schema.RuleKey) (schema.RuleRow, error)
}

// QualityGateService looks quality gates up by id.
type QualityGateService interface {
	FindByID(ctx context.Context, id int64) (schema.QualityGate, bool, error)
}

// MetricRepository resolves metric keys to metric definitions.
type MetricRepository interface {
	GetByKey(key string) (schema.Metric, error)
}

// Settings is a read-only view over resolved configuration properties.
type Settings interface {
	// GetString returns the value of key, or "" when it is not set.
	GetString(key string) string
}

// ProjectSettingsRepository resolves the settings that apply to a project.
type ProjectSettingsRepository interface {
	GetProjectSettings(ctx context.Context, projectKey string) (Settings, error)
}

// AnalysisStore is the persistence surface used by an analysis and its tooling.
type AnalysisStore interface {
	DbClient
	ReferenceStore
	Backend() schema.DatabaseBackend
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
}
