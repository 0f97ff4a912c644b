package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gk022135/todo-backend/internal/domain"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO users (name, email, password_hash, role, is_deleted)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.IsDeleted,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByEmail matches any row, soft-deleted included; callers decide
// what a deleted match means. Returns nil without error when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, role, is_deleted, created_at, updated_at
		 FROM users
		 WHERE email = $1`,
		email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, role, is_deleted, created_at, updated_at
		 FROM users
		 WHERE id = $1::uuid`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.User, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, name, email, password_hash, role, is_deleted, created_at, updated_at
		 FROM users
		 WHERE is_deleted = FALSE
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update patches name and/or password hash. Nil pointers leave the
// column untouched.
func (r *Repository) Update(ctx context.Context, id string, name, passwordHash *string) (*domain.User, error) {
	u, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`UPDATE users
		 SET name          = COALESCE($2, name),
		     password_hash = COALESCE($3, password_hash),
		     updated_at    = now()
		 WHERE id = $1::uuid
		 RETURNING id, name, email, password_hash, role, is_deleted, created_at, updated_at`,
		id, name, passwordHash,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

// SoftDelete flips the flag and returns the record. Deleting an
// already-deleted account is a no-op on the flag but still succeeds.
func (r *Repository) SoftDelete(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`UPDATE users
		 SET is_deleted = TRUE,
		     updated_at = now()
		 WHERE id = $1::uuid
		 RETURNING id, name, email, password_hash, role, is_deleted, created_at, updated_at`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *Repository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
