package http

import (
	"time"

	"github.com/n-utty/PhoneBookAPI/internal/phonebook_service/domain"
)

// ContactRequestDTO is the body for creating a contact and for the
// full-replacement update; both operations require the same fields.
type ContactRequestDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=20,phone_number"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=100"`
}

// ContactResponseDTO represents a contact in HTTP responses. email and
// updatedAt are omitted while absent.
type ContactResponseDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Email       string     `json:"email,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ErrorResponseDTO is the uniform error body for every failure response.
type ErrorResponseDTO struct {
	Status          int    `json:"status"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailedMessage"`
}

func toContactResponse(ct *domain.Contact) ContactResponseDTO {
	return ContactResponseDTO{
		ID:          ct.ID.String(),
		Name:        ct.Name,
		PhoneNumber: ct.PhoneNumber,
		Email:       ct.Email,
		CreatedAt:   ct.CreatedAt,
		UpdatedAt:   ct.UpdatedAt,
	}
}

func toContactResponses(contacts []*domain.Contact) []ContactResponseDTO {
	out := make([]ContactResponseDTO, len(contacts))
	for i, ct := range contacts {
		out[i] = toContactResponse(ct)
	}
	return out
}
