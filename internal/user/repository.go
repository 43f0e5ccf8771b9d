package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("user not found")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	query := `INSERT INTO users (full_name, email, password)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, u.FullName, u.Email, u.Password).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	query := `SELECT id, full_name, email, password, profile_pic, created_at
              FROM users WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u := &User{}
	query := `SELECT id, full_name, email, password, profile_pic, created_at
              FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Exists reports whether a user row exists without loading it.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListAllExcept returns every user except the given one, for initial contact
// discovery before any conversation exists.
func (r *Repository) ListAllExcept(ctx context.Context, id uuid.UUID) ([]*User, error) {
	query := `SELECT id, full_name, email, profile_pic, created_at
              FROM users WHERE id <> $1
              ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// FindMany loads the given users in the order the IDs are passed.
func (r *Repository) FindMany(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}

	query := `SELECT id, full_name, email, profile_pic, created_at
              FROM users WHERE id = ANY($1)
              ORDER BY array_position($1, id)`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *Repository) UpdateProfilePic(ctx context.Context, id uuid.UUID, url string) (*User, error) {
	u := &User{}
	query := `UPDATE users SET profile_pic = $2 WHERE id = $1
              RETURNING id, full_name, email, password, profile_pic, created_at`

	err := r.db.QueryRowContext(ctx, query, id, url).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]*User, error) {
	users := []*User{}
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.ProfilePic, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
