package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"slots-service/internal/models"

	_ "github.com/lib/pq"
)

// Document names, one row per (business, name).
const (
	docWeeklySchedule = "weekly_schedule"
	docOverrides      = "overrides"
	docAppointments   = "appointments"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Init creates the document table. Missing documents read as empty
// mappings, so no per-business seeding is needed.
func (s *Storage) Init(ctx context.Context) error {
	const op = "storage.postgres.Init"

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			business   TEXT NOT NULL,
			name       TEXT NOT NULL,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (business, name)
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Storage) getDoc(ctx context.Context, business, name string, out any) error {
	const op = "storage.postgres.getDoc"

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE business=$1 AND name=$2`,
		business, name).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func saveDoc(ctx context.Context, e execer, business, name string, doc any) error {
	const op = "storage.postgres.saveDoc"

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = e.ExecContext(ctx, `
		INSERT INTO documents (business, name, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (business, name)
		DO UPDATE
		SET doc = EXCLUDED.doc,
			updated_at = now()`,
		business, name, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetWeeklySchedule(ctx context.Context, business string) (models.WeeklySchedule, error) {
	const op = "storage.postgres.GetWeeklySchedule"

	schedule := models.WeeklySchedule{}
	if err := s.getDoc(ctx, business, docWeeklySchedule, &schedule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedule, nil
}

func (s *Storage) SaveWeeklySchedule(ctx context.Context, business string, schedule models.WeeklySchedule) error {
	const op = "storage.postgres.SaveWeeklySchedule"

	if err := saveDoc(ctx, s.db, business, docWeeklySchedule, schedule); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetOverrides(ctx context.Context, business string) (models.Overrides, error) {
	const op = "storage.postgres.GetOverrides"

	overrides := models.Overrides{}
	if err := s.getDoc(ctx, business, docOverrides, &overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return overrides, nil
}

func (s *Storage) SaveOverrides(ctx context.Context, business string, overrides models.Overrides) error {
	const op = "storage.postgres.SaveOverrides"

	if err := saveDoc(ctx, s.db, business, docOverrides, overrides); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetAppointments(ctx context.Context, business string) (models.Appointments, error) {
	const op = "storage.postgres.GetAppointments"

	appointments := models.Appointments{}
	if err := s.getDoc(ctx, business, docAppointments, &appointments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return appointments, nil
}

func (s *Storage) SaveAppointments(ctx context.Context, business string, appointments models.Appointments) error {
	const op = "storage.postgres.SaveAppointments"

	if err := saveDoc(ctx, s.db, business, docAppointments, appointments); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveBookingState writes the appointments and overrides documents in one
// transaction; a booking or cancellation never lands half-written.
func (s *Storage) SaveBookingState(ctx context.Context, business string, appointments models.Appointments, overrides models.Overrides) error {
	const op = "storage.postgres.SaveBookingState"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := saveDoc(ctx, tx, business, docAppointments, appointments); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := saveDoc(ctx, tx, business, docOverrides, overrides); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
