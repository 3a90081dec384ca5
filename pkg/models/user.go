package models

import "time"

type UserRole string

const (
	UserRoleTenant   UserRole = "tenant"
	UserRoleLandlord UserRole = "landlord"
)

// User is an account holder. PasswordHash is a bcrypt hash and never leaves
// the server.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}
