package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS bumps (
	       id          TEXT PRIMARY KEY,
	       timestamp   INTEGER NOT NULL CHECK (typeof(timestamp) = 'integer'),
	       file        TEXT NOT NULL,
	       direction   TEXT NOT NULL CHECK (direction IN ('increment', 'decrement')),
	       component   TEXT NOT NULL CHECK (component IN ('major', 'minor', 'patch')),
	       old_version TEXT NOT NULL,
	       new_version TEXT NOT NULL
	   );
	   CREATE INDEX IF NOT EXISTS bumps_timestamp ON bumps (timestamp);`

	insertBumpSQL = `
    INSERT INTO bumps (
        id, timestamp, file,
        direction, component,
        old_version, new_version
    ) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectRecentSQL = `
    SELECT id, timestamp, file, direction, component, old_version, new_version
    FROM bumps
    ORDER BY timestamp DESC
    LIMIT ?`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Debug().
		Int("version", SchemaVersion).
		Msg("History schema initialized")

	return nil
}

// GetSchemaVersion returns the current schema version, or 0 for a new database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name='schema_versions'
        )
    `).Scan(&exists)
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	return version, nil
}

// ValidateAndUpdateSchema recreates the schema when its version differs
// from SchemaVersion. An existing database is backed up first.
func ValidateAndUpdateSchema(db *sql.DB, dbPath string, log logger.Logger) error {
	errFactory := errors.New()

	version, err := GetSchemaVersion(db)
	if err != nil {
		return err
	}

	if version == SchemaVersion {
		log.Debug().Int("version", version).Msg("Schema version is current")
		return nil
	}

	if version != 0 {
		backupPath := filepath.Join(filepath.Dir(dbPath),
			fmt.Sprintf("history_v%d_%s.db", version, time.Now().UTC().Format("20060102T150405Z")))

		// VACUUM INTO requires no active transaction
		if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
			return errFactory.WithData(ErrSchemaMigrationFailed, struct {
				Phase string
				Path  string
				Error string
			}{
				Phase: "backup",
				Path:  backupPath,
				Error: err.Error(),
			})
		}

		log.Info().
			Str("path", backupPath).
			Int("version", version).
			Msg("History database backup created")

		for _, table := range []string{"bumps", "schema_versions"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errFactory.Wrap(ErrSchemaMigrationFailed, err)
			}
		}
	}

	return InitSchema(db, log)
}
