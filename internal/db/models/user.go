package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an account that owns contacts. Users are managed through
// the CLI (`telbook users create`); the HTTP API only authenticates them.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement"`
	Email        string     `bun:"email,notnull,unique"`
	Name         string     `bun:"name"`
	PasswordHash string     `bun:"password_hash,notnull"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	DisabledAt   *time.Time `bun:"disabled_at"`
}

// Disabled reports whether the account has been deactivated.
func (u *User) Disabled() bool {
	return u != nil && u.DisabledAt != nil
}
