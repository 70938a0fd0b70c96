package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - tool preferences as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Exports table - one row per saved PNG, metadata only
		`CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			width INTEGER NOT NULL CHECK(width > 0),
			height INTEGER NOT NULL CHECK(height > 0),
			template TEXT NOT NULL DEFAULT '',
			included_template INTEGER NOT NULL DEFAULT 0,
			bytes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
