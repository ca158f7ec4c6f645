package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a sleep session owned by a user. The owner reference is set at
// creation and never mutated; the end instant is always derived, never
// client-supplied.
type Record struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"user"`
	Hours          float64   `json:"hours"`
	StartTimestamp time.Time `json:"startTimestamp"`
	EndTimestamp   time.Time `json:"endTimestamp"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RecordRepository defines persistence operations for sleep records.
// Lookups return (nil, nil) when no record matches.
type RecordRepository interface {
	Create(ctx context.Context, userID string, hours float64, start, end time.Time) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, id string, hours float64, start, end time.Time) (*Record, error)
	Delete(ctx context.Context, id string) error
	FindByUser(ctx context.Context, userID string) ([]Record, error)
}

func parseRecordID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &InvalidIDError{Field: "recordId"}
	}
	return parsed.String(), nil
}

// PgRecordRepository implements RecordRepository using pgxpool.
type PgRecordRepository struct {
	db *pgxpool.Pool
}

func NewPgRecordRepository(db *pgxpool.Pool) *PgRecordRepository {
	return &PgRecordRepository{db: db}
}

func (r *PgRecordRepository) Create(ctx context.Context, userID string, hours float64, start, end time.Time) (*Record, error) {
	const q = `INSERT INTO records (id, user_id, hours, start_timestamp, end_timestamp) VALUES ($1,$2,$3,$4,$5) RETURNING created_at, updated_at`
	rec := Record{
		ID:             uuid.NewString(),
		UserID:         userID,
		Hours:          hours,
		StartTimestamp: start,
		EndTimestamp:   end,
	}
	if err := r.db.QueryRow(ctx, q, rec.ID, userID, hours, start, end).Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, translatePgError(err)
	}
	return &rec, nil
}

func (r *PgRecordRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	parsed, err := parseRecordID(id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT id, user_id, hours, start_timestamp, end_timestamp, created_at, updated_at FROM records WHERE id=$1`
	var rec Record
	err = r.db.QueryRow(ctx, q, parsed).Scan(&rec.ID, &rec.UserID, &rec.Hours, &rec.StartTimestamp, &rec.EndTimestamp, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Update rewrites the interval fields only; ownership never changes.
func (r *PgRecordRepository) Update(ctx context.Context, id string, hours float64, start, end time.Time) (*Record, error) {
	parsed, err := parseRecordID(id)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE records SET hours=$1, start_timestamp=$2, end_timestamp=$3, updated_at=now()
WHERE id=$4
RETURNING id, user_id, hours, start_timestamp, end_timestamp, created_at, updated_at`
	var rec Record
	err = r.db.QueryRow(ctx, q, hours, start, end, parsed).Scan(&rec.ID, &rec.UserID, &rec.Hours, &rec.StartTimestamp, &rec.EndTimestamp, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translatePgError(err)
	}
	return &rec, nil
}

func (r *PgRecordRepository) Delete(ctx context.Context, id string) error {
	parsed, err := parseRecordID(id)
	if err != nil {
		return err
	}
	const q = `DELETE FROM records WHERE id=$1`
	_, err = r.db.Exec(ctx, q, parsed)
	return err
}

func (r *PgRecordRepository) FindByUser(ctx context.Context, userID string) ([]Record, error) {
	const q = `
SELECT id, user_id, hours, start_timestamp, end_timestamp, created_at, updated_at
FROM records
WHERE user_id=$1
ORDER BY start_timestamp, id`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Hours, &rec.StartTimestamp, &rec.EndTimestamp, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
