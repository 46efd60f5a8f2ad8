package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Migration struct {
	Version string
	Name    string
	File    string
}

type MigrationRecord struct {
	Version   string
	Name      string
	AppliedAt time.Time
}

// LoadMigrations reads "<version>_<name>.sql" files from dir in version order.
func LoadMigrations(dir string, logger *zap.Logger) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) != 2 || parts[0] == "" {
			logger.Warn("skipping migration with unexpected file name", zap.String("file", entry.Name()))
			continue
		}

		migrations = append(migrations, Migration{
			Version: parts[0],
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			File:    filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func ensureMigrationsTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

func AppliedMigrations(ctx context.Context, db *pgxpool.Pool) ([]MigrationRecord, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, "SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var record MigrationRecord
		if err := rows.Scan(&record.Version, &record.Name, &record.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan migration record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migration records: %w", err)
	}

	return records, nil
}

// PendingMigrations returns files from dir that have not been applied yet.
func PendingMigrations(ctx context.Context, db *pgxpool.Pool, dir string, logger *zap.Logger) ([]Migration, error) {
	applied, err := AppliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	all, err := LoadMigrations(dir, logger)
	if err != nil {
		return nil, err
	}

	return filterPending(all, applied), nil
}

func filterPending(all []Migration, applied []MigrationRecord) []Migration {
	done := make(map[string]bool, len(applied))
	for _, record := range applied {
		done[record.Version] = true
	}

	pending := make([]Migration, 0, len(all))
	for _, m := range all {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

// RunMigrations applies every pending migration, each in its own transaction.
func RunMigrations(ctx context.Context, db *pgxpool.Pool, dir string, logger *zap.Logger) error {
	pending, err := PendingMigrations(ctx, db, dir, logger)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		logger.Info("database schema is up to date")
		return nil
	}

	for _, m := range pending {
		content, err := os.ReadFile(m.File)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", m.File, err)
		}

		logger.Info("applying migration", zap.String("version", m.Version), zap.String("name", m.Name))

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("apply migration %s: %w", m.File, err)
		}

		_, err = tx.Exec(ctx,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)",
			m.Version, m.Name, time.Now(),
		)
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Version, err)
		}

		logger.Info("migration applied", zap.String("version", m.Version), zap.String("name", m.Name))
	}

	return nil
}
