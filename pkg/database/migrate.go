package database

import (
	"database/sql"
	"fmt"
)

// Migrate applies each schema script in order. Scripts must be idempotent.
func Migrate(db *sql.DB, schemas ...string) error {
	for i, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("apply schema %d: %w", i, err)
		}
	}
	return nil
}
