package user

import (
	"database/sql"
	"time"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

const (
	usersTable = "users"
)

// UserRow represents the database row for a user
type UserRow struct {
	ID           sql.NullString `db:"id"`
	Name         sql.NullString `db:"name"`
	Email        sql.NullString `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	Role         sql.NullString `db:"role"`
	CreatedAt    sql.NullTime   `db:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at"`
}

var userStruct = database.NewStruct(new(UserRow))

// FromUser converts a domain model to a database row
func FromUser(u *models.User) *UserRow {
	return &UserRow{
		ID:           sql.NullString{String: u.ID, Valid: u.ID != ""},
		Name:         sql.NullString{String: u.Name, Valid: u.Name != ""},
		Email:        sql.NullString{String: u.Email, Valid: u.Email != ""},
		PasswordHash: sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""},
		Role:         sql.NullString{String: string(u.Role), Valid: u.Role != ""},
		CreatedAt:    sql.NullTime{Time: u.CreatedAt, Valid: !u.CreatedAt.IsZero()},
		UpdatedAt:    sql.NullTime{Time: u.UpdatedAt, Valid: !u.UpdatedAt.IsZero()},
	}
}

// ToUser converts a database row to a domain model
func ToUser(row *UserRow) *models.User {
	return &models.User{
		ID:           row.ID.String,
		Name:         row.Name.String,
		Email:        row.Email.String,
		PasswordHash: row.PasswordHash.String,
		Role:         models.UserRole(row.Role.String),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
