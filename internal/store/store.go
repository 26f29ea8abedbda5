// Package store persists file sources and reads reference data over database/sql.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"

	_ "github.com/go-sql-driver/mysql" // register mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	_ "modernc.org/sqlite"             // register sqlite driver
)

// Table names.
const (
	fileSourcesTable     = "file_sources"
	characteristicsTable = "characteristics"
	rulesTable           = "rules"
	qualityGatesTable    = "quality_gates"
	metricsTable         = "metrics"
	propertiesTable      = "properties"
)

// managedTables lists every table created by the migrations.
var managedTables = []string{
	fileSourcesTable,
	characteristicsTable,
	rulesTable,
	qualityGatesTable,
	metricsTable,
	propertiesTable,
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store is the relational store behind the computation steps.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	target     string
}

var (
	_ contract.DbClient       = &Store{} // Compile-time check
	_ contract.ReferenceStore = &Store{} // Compile-time check
	_ contract.AnalysisStore  = &Store{} // Compile-time check
)

// Open connects to the backend and migrates the schema to the latest version.
// The none backend is served by a private in-memory SQLite database.
func Open(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*Store, error) {
	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is readable and writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	s := &Store{db: db, backend: backend, driverName: driverName, target: describeTarget(backend, connStr)}
	if err := s.Migrate(DefaultTargetVersion); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// openDB opens the database handle for a backend without touching the schema.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.NoneBackend:
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, "", fmt.Errorf("failed to open in-memory database: %w", err)
		}
		// Every connection to :memory: is a distinct database
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// Backend returns the backend the store is connected to.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// OpenSession starts a unit of work. The transaction begins with the first statement.
func (s *Store) OpenSession(_ context.Context) (contract.DbSession, error) {
	if s.db == nil {
		return nil, errors.New("store is closed")
	}
	return &Session{store: s}, nil
}

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default: // SQLite and PostgreSQL
		return `"` + name + `"`
	}
}

// rebind rewrites "?" placeholders into "$n" for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// query formats a statement for the store's backend. Table names are passed
// through %s verbs and get quoted.
func (s *Store) query(format string, tables ...string) string {
	args := make([]any, len(tables))
	for i, t := range tables {
		args[i] = quoteTableName(t, s.backend)
	}
	return rebind(fmt.Sprintf(format, args...), s.backend)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertReturningID runs an INSERT and returns the generated id.
func (s *Store) insertReturningID(ctx context.Context, ex execer, query string, args ...any) (int64, error) {
	if s.backend == schema.PostgreSQLBackend {
		var id int64
		if err := ex.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	result, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
