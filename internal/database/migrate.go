package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialSchemaSQL string

var requiredTables = []string{"users", "chats"}

// EnsureSchema applies the embedded schema when the required tables are
// missing. The migration SQL is idempotent, so a partially created
// schema is completed rather than rejected.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	missing, err := db.missingTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if len(missing) > 0 {
		slog.Info("applying initial schema", "missing_tables", missing)
		if _, err := db.Pool.Exec(ctx, initialSchemaSQL); err != nil {
			return fmt.Errorf("apply initial schema: %w", err)
		}

		missing, err = db.missingTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("schema initialization incomplete, still missing: %v", missing)
		}
	}

	slog.Info("database schema ensured")
	return nil
}

func (db *DB) missingTables(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]bool, len(requiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, table := range requiredTables {
		if !found[table] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
