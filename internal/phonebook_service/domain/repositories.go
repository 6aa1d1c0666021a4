package domain

import (
	"context"

	"github.com/google/uuid"
)

// ContactQuery enumerates the supported search filters. Non-empty fields are
// OR-combined; the zero value matches every contact.
type ContactQuery struct {
	NameContains  string // case-insensitive substring match on name
	PhoneContains string // substring match on phone number
}

// IsZero reports whether no filter is set.
func (q ContactQuery) IsZero() bool {
	return q.NameContains == "" && q.PhoneContains == ""
}

// ContactRepository defines persistence for contacts. Every mutating call
// commits immediately; there is no cross-call transaction.
type ContactRepository interface {
	// Create inserts the contact. A phone number collision with the unique
	// index returns ErrDuplicatePhoneNumber.
	Create(ctx context.Context, contact *Contact) error
	// GetByID returns the contact or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	// List returns all contacts.
	List(ctx context.Context) ([]*Contact, error)
	// Update replaces all mutable fields of an existing contact by id.
	// An absent id returns ErrNotFound; a phone number collision returns
	// ErrDuplicatePhoneNumber.
	Update(ctx context.Context, contact *Contact) error
	// Delete removes the contact by id, returning ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error
	// Search returns the contacts matching the query.
	Search(ctx context.Context, query ContactQuery) ([]*Contact, error)
	// FindByPhoneNumber returns the contact holding the exact phone number,
	// or (nil, nil) when no contact does.
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*Contact, error)
}
