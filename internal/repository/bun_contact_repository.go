package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/telbook/telbook/internal/db/models"
)

// BunContactRepository implements ContactRepository using Bun ORM
type BunContactRepository struct {
	db *bun.DB
}

// NewBunContactRepository creates a new Bun-based contact repository
func NewBunContactRepository(db *bun.DB) *BunContactRepository {
	return &BunContactRepository{db: db}
}

// Create inserts a new contact. OwnerID must already be set by the caller.
func (r *BunContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	_, err := r.db.NewInsert().
		Model(contact).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// GetByID retrieves a contact by ID without owner scoping. It backs the
// ownership check in the contact service and is not reachable from handlers.
func (r *BunContactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	contact := new(models.Contact)
	err := r.db.NewSelect().
		Model(contact).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact by ID: %w", err)
	}
	return contact, nil
}

// ListByOwner retrieves contacts owned by ownerID ordered by
// (first_name, last_name) ascending. A non-empty search term restricts the
// result to contacts whose first or last name contains it, case-insensitively.
func (r *BunContactRepository) ListByOwner(ctx context.Context, ownerID int64, search string, limit, offset int) ([]models.Contact, error) {
	var contacts []models.Contact

	q := r.db.NewSelect().
		Model(&contacts).
		Where("owner_id = ?", ownerID)
	q = applySearch(q, search)

	err := q.
		Order("first_name ASC", "last_name ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// CountByOwner counts the contacts ListByOwner would return before paging.
func (r *BunContactRepository) CountByOwner(ctx context.Context, ownerID int64, search string) (int, error) {
	q := r.db.NewSelect().
		Model((*models.Contact)(nil)).
		Where("owner_id = ?", ownerID)
	q = applySearch(q, search)

	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

// Update persists changes to an already ownership-verified contact.
func (r *BunContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(contact).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// Delete removes an already ownership-verified contact.
func (r *BunContactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Contact)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// applySearch adds the case-insensitive name filter to a contact query.
func applySearch(q *bun.SelectQuery, search string) *bun.SelectQuery {
	if search == "" {
		return q
	}
	pattern := "%" + strings.ToLower(search) + "%"
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("lower(first_name) LIKE ?", pattern).
			WhereOr("lower(last_name) LIKE ?", pattern)
	})
}
