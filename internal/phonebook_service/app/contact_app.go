package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/n-utty/PhoneBookAPI/internal/phonebook_service/domain"
)

// Application provides the contact management operations and owns the
// phone number uniqueness rule.
type Application struct {
	contactRepo domain.ContactRepository
	events      EventPublisher
	logger      *slog.Logger
}

// NewApplication creates an Application. events may be nil, which disables
// lifecycle event publishing.
func NewApplication(contactRepo domain.ContactRepository, events EventPublisher, logger *slog.Logger) *Application {
	return &Application{
		contactRepo: contactRepo,
		events:      events,
		logger:      logger,
	}
}

// ListContacts returns all contacts.
func (a *Application) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	return a.contactRepo.List(ctx)
}

// GetContact returns the contact with the given id, or domain.ErrNotFound.
func (a *Application) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return a.contactRepo.GetByID(ctx, id)
}

// CreateContact creates a contact after checking that no other contact holds
// the phone number. Two concurrent creates can both pass the check; the
// unique index rejects the loser and the repository reports that as
// domain.ErrDuplicatePhoneNumber, so callers see the same conflict either way.
func (a *Application) CreateContact(ctx context.Context, name, phoneNumber, email string) (*domain.Contact, error) {
	existing, err := a.contactRepo.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		a.logger.WarnContext(ctx, "Create rejected, phone number already in use",
			"phone_number", phoneNumber, "existing_contact_id", existing.ID)
		return nil, domain.ErrDuplicatePhoneNumber
	}

	contact := domain.NewContact(uuid.New(), name, phoneNumber, email)
	if err := a.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "Contact created", "contact_id", contact.ID)
	a.publishEvent(ctx, SubjectContactCreated, contact)
	return contact, nil
}

// UpdateContact replaces the mutable fields of an existing contact. The phone
// number may collide only with the contact itself; holding one's own number
// is not a conflict.
func (a *Application) UpdateContact(ctx context.Context, id uuid.UUID, name, phoneNumber, email string) (*domain.Contact, error) {
	contact, err := a.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	holder, err := a.contactRepo.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != id {
		a.logger.WarnContext(ctx, "Update rejected, phone number held by another contact",
			"phone_number", phoneNumber, "contact_id", id, "holder_contact_id", holder.ID)
		return nil, domain.ErrDuplicatePhoneNumber
	}

	contact.Name = name
	contact.PhoneNumber = phoneNumber
	contact.Email = email
	now := time.Now().UTC()
	contact.UpdatedAt = &now

	if err := a.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "Contact updated", "contact_id", contact.ID)
	a.publishEvent(ctx, SubjectContactUpdated, contact)
	return contact, nil
}

// DeleteContact removes the contact, returning domain.ErrNotFound when it
// does not exist.
func (a *Application) DeleteContact(ctx context.Context, id uuid.UUID) error {
	if err := a.contactRepo.Delete(ctx, id); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "Contact deleted", "contact_id", id)
	a.publishEvent(ctx, SubjectContactDeleted, contactDeletedEvent{ID: id})
	return nil
}

// SearchContacts returns the contacts whose name or phone number contains
// the term. A blank term returns all contacts.
func (a *Application) SearchContacts(ctx context.Context, term string) ([]*domain.Contact, error) {
	if strings.TrimSpace(term) == "" {
		return a.contactRepo.List(ctx)
	}
	return a.contactRepo.Search(ctx, domain.ContactQuery{
		NameContains:  term,
		PhoneContains: term,
	})
}
