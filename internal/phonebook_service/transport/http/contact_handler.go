package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/n-utty/PhoneBookAPI/internal/phonebook_service/domain"
)

// ContactService is the application surface the handler drives.
// Implemented by app.Application.
type ContactService interface {
	ListContacts(ctx context.Context) ([]*domain.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	CreateContact(ctx context.Context, name, phoneNumber, email string) (*domain.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, name, phoneNumber, email string) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	SearchContacts(ctx context.Context, term string) ([]*domain.Contact, error)
}

// ContactHandler maps HTTP requests onto the contact service and shapes
// responses and errors.
type ContactHandler struct {
	service  ContactService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewContactHandler(service ContactService, logger *slog.Logger, validate *validator.Validate) *ContactHandler {
	return &ContactHandler{
		service:  service,
		logger:   logger,
		validate: validate,
	}
}

// RegisterRoutes sets up the contact routes. The static /contacts/search
// route coexists with /contacts/{contactID}; chi matches static segments
// first.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts", h.CreateContact)
	r.Get("/contacts/search", h.SearchContacts)
	r.Get("/contacts/{contactID}", h.GetContact)
	r.Put("/contacts/{contactID}", h.UpdateContact)
	r.Delete("/contacts/{contactID}", h.DeleteContact)
}

func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contacts, err := h.service.ListContacts(ctx)
	if err != nil {
		h.respondWithAppError(ctx, w, "list_contacts", err)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponses(contacts))
}

func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.contactIDFromURL(w, r)
	if !ok {
		return
	}
	contact, err := h.service.GetContact(ctx, id)
	if err != nil {
		h.respondWithAppError(ctx, w, "get_contact", err, "contact_id", id)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed", formatValidationDetail(err))
		return
	}

	contact, err := h.service.CreateContact(ctx, reqDTO.Name, reqDTO.PhoneNumber, reqDTO.Email)
	if err != nil {
		h.respondWithAppError(ctx, w, "create_contact", err, "phone_number", reqDTO.PhoneNumber)
		return
	}
	w.Header().Set("Location", "/contacts/"+contact.ID.String())
	respondWithJSON(w, http.StatusCreated, toContactResponse(contact))
}

func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.contactIDFromURL(w, r)
	if !ok {
		return
	}

	var reqDTO ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed", formatValidationDetail(err))
		return
	}

	contact, err := h.service.UpdateContact(ctx, id, reqDTO.Name, reqDTO.PhoneNumber, reqDTO.Email)
	if err != nil {
		h.respondWithAppError(ctx, w, "update_contact", err, "contact_id", id)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.contactIDFromURL(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteContact(ctx, id); err != nil {
		h.respondWithAppError(ctx, w, "delete_contact", err, "contact_id", id)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *ContactHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term := r.URL.Query().Get("searchTerm")
	contacts, err := h.service.SearchContacts(ctx, term)
	if err != nil {
		h.respondWithAppError(ctx, w, "search_contacts", err, "search_term", term)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponses(contacts))
}

// contactIDFromURL parses the {contactID} route parameter. An id that is not
// a UUID identifies no contact, so it reports not found rather than a
// validation failure.
func (h *ContactHandler) contactIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Contact not found", "no contact exists with the requested id")
		return uuid.Nil, false
	}
	return id, true
}

// respondWithAppError converts service errors into the uniform error body.
// Unexpected errors are logged with their full detail and reported to the
// client generically.
func (h *ContactHandler) respondWithAppError(ctx context.Context, w http.ResponseWriter, operation string, err error, logAttrs ...any) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Contact not found", "no contact exists with the requested id")
	case errors.Is(err, domain.ErrDuplicatePhoneNumber):
		respondWithError(w, http.StatusBadRequest, "Duplicate phone number", "another contact already uses this phone number")
	default:
		attrs := append([]any{"operation", operation, "error", err}, logAttrs...)
		h.logger.ErrorContext(ctx, "Request failed unexpectedly", attrs...)
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "an unexpected error occurred")
	}
}
