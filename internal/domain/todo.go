package domain

import "time"

// Todo is a task item owned by exactly one user. UserID is fixed at
// creation; every mutation re-checks it against the caller.
type Todo struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	UserID      string    `db:"user_id" json:"userId"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// NewTodo applies creation defaults: empty description, not completed.
func NewTodo(userID, title, description string, completed bool) *Todo {
	return &Todo{
		Title:       title,
		Description: description,
		Completed:   completed,
		UserID:      userID,
	}
}
