package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies any pending .up.sql migrations in version order.
// Each migration runs in its own transaction and is recorded in
// schema_migrations, so re-running is safe.
func Migrate(database *sql.DB) error {
	if _, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upMigrations []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upMigrations = append(upMigrations, entry.Name())
		}
	}
	sort.Strings(upMigrations)

	for _, filename := range upMigrations {
		applied, err := applyMigration(database, filename)
		if err != nil {
			return err
		}
		if applied {
			slog.Info("applied migration", "file", filename)
		}
	}

	return nil
}

func applyMigration(database *sql.DB, filename string) (bool, error) {
	version := extractVersion(filename)

	var exists int
	if err := database.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}
	if exists > 0 {
		return false, nil
	}

	content, err := migrationsFS.ReadFile("migrations/" + filename)
	if err != nil {
		return false, fmt.Errorf("reading migration %s: %w", filename, err)
	}

	transaction, err := database.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning transaction for migration %d: %w", version, err)
	}

	if _, err := transaction.Exec(string(content)); err != nil {
		transaction.Rollback()
		return false, fmt.Errorf("executing migration %s: %w", filename, err)
	}

	if _, err := transaction.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		transaction.Rollback()
		return false, fmt.Errorf("recording migration %d: %w", version, err)
	}

	if err := transaction.Commit(); err != nil {
		return false, fmt.Errorf("committing migration %d: %w", version, err)
	}
	return true, nil
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
