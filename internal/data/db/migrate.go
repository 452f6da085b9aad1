package db

import (
	"fmt"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureCatalogueIndexes adds the indexes the query path relies on. The
// statements are portable between Postgres and SQLite.
func EnsureCatalogueIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_solutions_active_visible", `CREATE INDEX IF NOT EXISTS idx_solutions_active_visible ON solutions(id) WHERE date_removed IS NULL AND visible = true;`},
		{"idx_organisations_active", `CREATE INDEX IF NOT EXISTS idx_organisations_active ON organisations(id) WHERE date_removed IS NULL;`},
		{"idx_countries_lmic", `CREATE INDEX IF NOT EXISTS idx_countries_lmic ON countries(id) WHERE lmic = true;`},
		{"idx_query_logs_logged_at", `CREATE INDEX IF NOT EXISTS idx_query_logs_logged_at_desc ON query_logs(logged_at DESC);`},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

// EnsureUserIDRange moves the identity sequences of the lazily created
// dimensions past the seed range so user-created rows never collide with
// seed ids. SQLite assigns max(id)+1 and needs no adjustment.
func EnsureUserIDRange(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	for _, table := range []string{"languages", "regions"} {
		sql := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %[1]s), %[2]d))`,
			table, dimension.UserIDFloor-1,
		)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("advance %s id sequence: %w", table, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating catalogue tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCatalogueIndexes(s.db); err != nil {
		s.log.Error("Catalogue index migration failed", "error", err)
		return err
	}
	if err := EnsureUserIDRange(s.db); err != nil {
		s.log.Error("Dimension id range migration failed", "error", err)
		return err
	}
	return nil
}
