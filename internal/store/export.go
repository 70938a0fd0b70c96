package store

import (
	"database/sql"
	"errors"
	"time"
)

// ExportRecord describes one saved drawing.
type ExportRecord struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Template         string    `json:"template,omitempty"`
	IncludedTemplate bool      `json:"included_template"`
	Bytes            int       `json:"bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

// ExportRepository provides access to the export log.
type ExportRepository struct {
	db *sql.DB
}

// Exports returns the export repository for this store.
func (s *Store) Exports() *ExportRepository {
	return &ExportRepository{db: s.db}
}

// Create inserts a new export record. CreatedAt is set to now when zero.
func (r *ExportRepository) Create(e *ExportRecord) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO exports (id, filename, width, height, template, included_template, bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Filename, e.Width, e.Height, e.Template, e.IncludedTemplate, e.Bytes, e.CreatedAt,
	)
	return err
}

// GetByID retrieves an export record by its ID.
func (r *ExportRepository) GetByID(id string) (*ExportRecord, error) {
	e := &ExportRecord{}
	var included int

	err := r.db.QueryRow(
		`SELECT id, filename, width, height, template, included_template, bytes, created_at
		 FROM exports WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Filename, &e.Width, &e.Height, &e.Template, &included, &e.Bytes, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e.IncludedTemplate = included != 0
	return e, nil
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (r *ExportRepository) List(limit int) ([]*ExportRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, filename, width, height, template, included_template, bytes, created_at
		 FROM exports ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*ExportRecord
	for rows.Next() {
		e := &ExportRecord{}
		var included int

		err := rows.Scan(&e.ID, &e.Filename, &e.Width, &e.Height, &e.Template, &included, &e.Bytes, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.IncludedTemplate = included != 0
		records = append(records, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes an export record by its ID.
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
