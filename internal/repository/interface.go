package repository

import (
	"context"
	"errors"

	"github.com/telbook/telbook/internal/db/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrContactNotFound is returned when no contact matches the lookup.
	ErrContactNotFound = errors.New("contact not found")
)

// UserRepository exposes persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// ContactRepository exposes persistence operations for contacts.
//
// ListByOwner and CountByOwner are the only read paths reachable from the
// collection endpoint and are always owner-scoped. GetByID is unscoped and
// exists solely for the ownership check in the contact service; handlers
// must never call it directly.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID int64, search string, limit, offset int) ([]models.Contact, error)
	CountByOwner(ctx context.Context, ownerID int64, search string) (int, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id int64) error
}
