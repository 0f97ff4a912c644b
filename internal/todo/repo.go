package todo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gk022135/todo-backend/internal/domain"
)

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Create(ctx context.Context, t *domain.Todo) error {
	return r.Pool.QueryRow(
		ctx,
		`INSERT INTO todos (title, description, completed, user_id)
         VALUES ($1, $2, $3, $4::uuid)
         RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.Completed, t.UserID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	t, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`SELECT id, title, description, completed, user_id::text, created_at, updated_at
		 FROM todos
		 WHERE id = $1::uuid`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTodoNotFound
	}
	return t, err
}

// ListByOwner returns one page of the owner's todos in creation order
// (oldest first, id as tiebreaker) plus the owner's total count. A
// page past the end yields an empty slice, not an error.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]domain.Todo, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = $1::uuid`,
		ownerID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Compare against the page count instead of multiplying page out:
	// an absurdly large page would overflow the OFFSET into a negative
	// value and make Postgres reject the query.
	pages := (total + int64(limit) - 1) / int64(limit)
	if int64(page) > pages {
		return []domain.Todo{}, total, nil
	}

	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, title, description, completed, user_id::text, created_at, updated_at
		 FROM todos
		 WHERE user_id = $1::uuid
		 ORDER BY created_at ASC, id ASC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0, limit)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		todos = append(todos, t)
	}
	return todos, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, patch Patch) (*domain.Todo, error) {
	t, err := r.scanOne(r.Pool.QueryRow(
		ctx,
		`UPDATE todos
		 SET title       = COALESCE($2, title),
		     description = COALESCE($3, description),
		     completed   = COALESCE($4, completed),
		     updated_at  = now()
		 WHERE id = $1::uuid
		 RETURNING id, title, description, completed, user_id::text, created_at, updated_at`,
		id, patch.Title, patch.Description, patch.Completed,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTodoNotFound
	}
	return t, err
}

// Delete removes the row permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM todos WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *Repository) scanOne(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
