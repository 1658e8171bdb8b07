// Package contact implements the owner-scoped contact operations behind the
// REST surface. Every single-record operation passes through the ownership
// check in authorize; the collection operations only ever query through the
// owner-scoped repository methods, so records of other users are unreachable
// from any endpoint built on this service.
package contact

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/telbook/telbook/internal/db/models"
	"github.com/telbook/telbook/internal/repository"
	"github.com/telbook/telbook/internal/telemetry"
)

const tracerName = "telbook/services/contact"

var (
	// ErrNotFound is returned when a contact does not exist or is owned by a
	// different user. The two cases are deliberately indistinguishable so the
	// existence of another user's record never leaks.
	ErrNotFound = errors.New("contact not found")

	// ErrInvalidPage is returned for page numbers outside the paginated range.
	ErrInvalidPage = errors.New("invalid page")
)

// DefaultPageSize is used when the service is constructed without an explicit
// page size.
const DefaultPageSize = 10

// Service implements contact CRUD scoped to an owning user.
type Service struct {
	contacts repository.ContactRepository
	pageSize int
}

// NewService creates a contact service backed by the given repository.
func NewService(contacts repository.ContactRepository, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Service{contacts: contacts, pageSize: pageSize}
}

// PageSize returns the fixed page size used by List.
func (s *Service) PageSize() int {
	return s.pageSize
}

// Page is one page of an owner's contact listing.
type Page struct {
	Count   int
	Number  int
	Size    int
	Results []models.Contact
}

// HasNext reports whether a page follows this one.
func (p *Page) HasNext() bool {
	return p.Number*p.Size < p.Count
}

// HasPrevious reports whether a page precedes this one.
func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

// List returns the requested page of contacts owned by ownerID, ordered by
// (first_name, last_name) ascending. A non-empty search term filters on
// first or last name, case-insensitively. Page numbers start at 1; page 1 is
// always valid, even when the listing is empty.
func (s *Service) List(ctx context.Context, ownerID int64, search string, page int) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contact.List",
		attribute.Int64(telemetry.AttrOwnerID, ownerID),
		attribute.Int(telemetry.AttrPage, page),
	)
	defer span.End()

	if page < 1 {
		return nil, ErrInvalidPage
	}

	count, err := s.contacts.CountByOwner(ctx, ownerID, search)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("count contacts for owner %d: %w", ownerID, err)
	}

	totalPages := (count + s.pageSize - 1) / s.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		return nil, ErrInvalidPage
	}

	results, err := s.contacts.ListByOwner(ctx, ownerID, search, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list contacts for owner %d: %w", ownerID, err)
	}

	return &Page{
		Count:   count,
		Number:  page,
		Size:    s.pageSize,
		Results: results,
	}, nil
}

// Create validates the input and persists a new contact. The owner is always
// the acting user; nothing in the input can influence it.
func (s *Service) Create(ctx context.Context, ownerID int64, in Input) (*models.Contact, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contact.Create",
		attribute.Int64(telemetry.AttrOwnerID, ownerID),
	)
	defer span.End()

	if fields := in.Validate(false); len(fields) > 0 {
		telemetry.AddEvent(span, "validation.failed")
		return nil, &ValidationError{Fields: fields}
	}

	contact := &models.Contact{
		OwnerID:   ownerID,
		FirstName: *in.FirstName,
		LastName:  *in.LastName,
		Phone:     *in.Phone,
		Email:     *in.Email,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create contact for owner %d: %w", ownerID, err)
	}

	span.SetAttributes(attribute.Int64(telemetry.AttrContactID, contact.ID))
	return contact, nil
}

// Get returns the contact with the given ID if it is owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	return s.authorize(ctx, ownerID, id)
}

// Update applies the input to an owned contact. With partial set, only the
// supplied fields are validated and applied; otherwise all fields are
// required and the record is replaced wholesale.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in Input, partial bool) (*models.Contact, error) {
	contact, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if fields := in.Validate(partial); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if in.FirstName != nil {
		contact.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		contact.LastName = *in.LastName
	}
	if in.Phone != nil {
		contact.Phone = *in.Phone
	}
	if in.Email != nil {
		contact.Email = *in.Email
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		// Racing delete: the record vanished between authorize and update
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}

	return contact, nil
}

// Delete removes an owned contact.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.authorize(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete contact %d: %w", id, err)
	}

	return nil
}

// authorize is the single-record ownership gate. It looks the record up
// without scoping and reports ErrNotFound both when the record is missing
// and when it belongs to someone else.
func (s *Service) authorize(ctx context.Context, ownerID, id int64) (*models.Contact, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "contact.authorize",
		attribute.Int64(telemetry.AttrOwnerID, ownerID),
		attribute.Int64(telemetry.AttrContactID, id),
	)
	defer span.End()

	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			telemetry.AddEvent(span, "authorize.missing")
			return nil, ErrNotFound
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}

	if contact.OwnerID != ownerID {
		telemetry.AddEvent(span, "authorize.denied")
		return nil, ErrNotFound
	}

	return contact, nil
}
