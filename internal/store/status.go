package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

// describeTarget renders where a backend points to, without credentials.
func describeTarget(backend schema.DatabaseBackend, connStr string) string {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return contract.GetDBFilePath()
		}
		return connStr
	case schema.NoneBackend:
		return ":memory:"
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return "(invalid dsn)"
		}
		return cfg.Addr + "/" + cfg.DBName
	case schema.PostgreSQLBackend:
		cfg, err := pgconn.ParseConfig(connStr)
		if err != nil {
			return "(invalid dsn)"
		}
		return net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)) + "/" + cfg.Database
	default:
		return ""
	}
}

// GetStatus returns status information about the store.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Target:     s.target,
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	version, dirty, err := s.SchemaVersion()
	if err != nil {
		return status, err
	}
	status.SchemaVersion = version
	status.Dirty = dirty

	var lastUpdate sql.NullInt64
	var totalBytes sql.NullInt64
	lengthFn := "OCTET_LENGTH"
	if s.backend == schema.SQLiteBackend || s.backend == schema.NoneBackend {
		lengthFn = "LENGTH"
	}
	query := s.query(fmt.Sprintf(`SELECT COUNT(*), MAX(updated_at), SUM(%s(binary_data)) FROM %%s`, lengthFn), fileSourcesTable)
	if err := s.db.QueryRowContext(ctx, query).Scan(&status.TotalFileSources, &lastUpdate, &totalBytes); err != nil {
		return status, fmt.Errorf("failed to get file source totals: %w", err)
	}
	if lastUpdate.Valid {
		status.LastUpdateTime = time.UnixMilli(lastUpdate.Int64)
	}
	status.TotalBinaryBytes = totalBytes.Int64

	for _, table := range managedTables {
		var count int64
		if err := s.db.QueryRowContext(ctx, s.query(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}
