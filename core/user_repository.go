package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User is an account holder. The password hash is never serialized.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRepository defines persistence operations for users. Lookups return
// (nil, nil) when no user matches, so callers decide the not-found response.
type UserRepository interface {
	Create(ctx context.Context, name, username, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id, name, username, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// parseUserID validates an incoming user identifier. A syntactically invalid
// id is a typed failure naming the request field it came from.
func parseUserID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &InvalidIDError{Field: "userId"}
	}
	return parsed.String(), nil
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) Create(ctx context.Context, name, username, passwordHash string) (*User, error) {
	const q = `INSERT INTO users (id, name, username, password_hash) VALUES ($1,$2,$3,$4) RETURNING created_at, updated_at`
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := r.db.QueryRow(ctx, q, u.ID, name, username, passwordHash).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translatePgError(err)
	}
	return &u, nil
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const q = `SELECT id, name, username, password_hash, created_at, updated_at FROM users WHERE username=$1`
	var u User
	err := r.db.QueryRow(ctx, q, username).Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	parsed, err := parseUserID(id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT id, name, username, password_hash, created_at, updated_at FROM users WHERE id=$1`
	var u User
	err = r.db.QueryRow(ctx, q, parsed).Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) Update(ctx context.Context, id, name, username, passwordHash string) error {
	parsed, err := parseUserID(id)
	if err != nil {
		return err
	}
	const q = `UPDATE users SET name=$1, username=$2, password_hash=$3, updated_at=now() WHERE id=$4`
	if _, err := r.db.Exec(ctx, q, name, username, passwordHash, parsed); err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	parsed, err := parseUserID(id)
	if err != nil {
		return err
	}
	const q = `DELETE FROM users WHERE id=$1`
	_, err = r.db.Exec(ctx, q, parsed)
	return err
}
