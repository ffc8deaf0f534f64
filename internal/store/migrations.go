package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration defines an additive schema migration.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists columns added after the first release. These handle
// databases created before the accounts feature landed.
var pendingMigrations = []Migration{
	{"records", "created_at", "TEXT"},
	{"accounts", "balance", "TEXT DEFAULT '0.00'"},
}

// RunMigrations applies schema migrations for existing databases. Missing
// tables are skipped quietly; initialize() owns table creation.
func RunMigrations(db *sql.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	applied := 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}

		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			// Column may already exist in a different form.
			log.Warn("migration failed",
				zap.String("table", m.Table),
				zap.String("column", m.Column),
				zap.Error(err))
			continue
		}
		applied++
		log.Info("migration applied",
			zap.String("table", m.Table),
			zap.String("column", m.Column))
	}

	if applied > 0 {
		log.Info("schema migrations complete", zap.Int("applied", applied))
	}
	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// tableExists checks if a table exists in the database.
func tableExists(db *sql.DB, table string) bool {
	var count int
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?"
	if err := db.QueryRow(query, table).Scan(&count); err != nil {
		return false
	}
	return count > 0
}
