package domain

import "time"

// Account roles. Signup always produces RoleUser; admins are promoted
// through the admin update endpoint (or directly in the database).
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a persisted user record. PasswordHash never leaves
// the server; deletion is a flag flip, the row stays.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	IsDeleted    bool      `db:"is_deleted" json:"isDeleted"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// NewUser applies signup defaults explicitly rather than leaning on
// column defaults: fresh accounts are plain non-deleted users.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsDeleted:    false,
	}
}

// Profile is the user shape returned to the account owner.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AdminView additionally exposes the soft-delete flag; only the admin
// listing uses it.
type AdminView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsDeleted bool   `json:"isDeleted"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u *User) AdminView() AdminView {
	return AdminView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, IsDeleted: u.IsDeleted}
}
