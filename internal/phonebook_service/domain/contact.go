package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a single phonebook entry. PhoneNumber is unique across all
// contacts; the repository enforces this with a unique index and the
// application layer pre-checks it before every write.
type Contact struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Email       string     `json:"email,omitempty"` // optional; empty means absent
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"` // nil until the first update
}

// NewContact creates a Contact with a fresh creation timestamp.
// UpdatedAt stays nil until the contact is modified.
func NewContact(id uuid.UUID, name string, phoneNumber string, email string) *Contact {
	return &Contact{
		ID:          id,
		Name:        name,
		PhoneNumber: phoneNumber,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}
}
