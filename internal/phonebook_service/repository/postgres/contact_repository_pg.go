package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/n-utty/PhoneBookAPI/internal/phonebook_service/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs. pgx.Tx and
// pgxmock satisfy it as well, which keeps the repository testable without a
// live database.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const contactColumns = "id, name, phone_number, email, created_at, updated_at"

type PgContactRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgContactRepository(db Querier, logger *slog.Logger) *PgContactRepository {
	return &PgContactRepository{db: db, logger: logger.With("component", "contact_repository_pg")}
}

// scanContact scans a single contact row. updated_at may be NULL, in which
// case Contact.UpdatedAt stays nil.
func scanContact(row pgx.Row) (*domain.Contact, error) {
	var ct domain.Contact
	err := row.Scan(&ct.ID, &ct.Name, &ct.PhoneNumber, &ct.Email, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgContactRepository) Create(ctx context.Context, ct *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, name, phone_number, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, ct.ID, ct.Name, ct.PhoneNumber, ct.Email, ct.CreatedAt, ct.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate phone number on insert", "phone_number", ct.PhoneNumber)
			return domain.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Error creating contact", "error", err, "contact_id", ct.ID)
		return fmt.Errorf("creating contact: %w", err)
	}
	r.logger.InfoContext(ctx, "Contact created", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	ct, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by ID", "error", err, "contact_id", id)
		return nil, fmt.Errorf("getting contact %s: %w", id, err)
	}
	return ct, nil
}

func (r *PgContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY name ASC, phone_number ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing contacts", "error", err)
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return collectContacts(rows)
}

func (r *PgContactRepository) Update(ctx context.Context, ct *domain.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, phone_number = $2, email = $3, updated_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, ct.Name, ct.PhoneNumber, ct.Email, ct.UpdatedAt, ct.ID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate phone number on update", "phone_number", ct.PhoneNumber, "contact_id", ct.ID)
			return domain.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Error updating contact", "error", err, "contact_id", ct.ID)
		return fmt.Errorf("updating contact %s: %w", ct.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact updated", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting contact", "error", err, "contact_id", id)
		return fmt.Errorf("deleting contact %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact deleted", "contact_id", id)
	return nil
}

func (r *PgContactRepository) Search(ctx context.Context, q domain.ContactQuery) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	var conds []string
	var args []any
	if q.NameContains != "" {
		args = append(args, "%"+escapeLikePattern(q.NameContains)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.PhoneContains != "" {
		args = append(args, "%"+escapeLikePattern(q.PhoneContains)+"%")
		conds = append(conds, fmt.Sprintf("phone_number LIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " OR ")
	}
	query += " ORDER BY name ASC, phone_number ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error searching contacts", "error", err,
			"name_contains", q.NameContains, "phone_contains", q.PhoneContains)
		return nil, fmt.Errorf("searching contacts: %w", err)
	}
	return collectContacts(rows)
}

func (r *PgContactRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE phone_number = $1`
	ct, err := scanContact(r.db.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error finding contact by phone number", "error", err, "phone_number", phoneNumber)
		return nil, fmt.Errorf("finding contact by phone number: %w", err)
	}
	return ct, nil
}

func collectContacts(rows pgx.Rows) ([]*domain.Contact, error) {
	defer rows.Close()
	var contacts []*domain.Contact
	for rows.Next() {
		ct, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}
	return contacts, nil
}

// escapeLikePattern makes a search term safe to embed in a LIKE/ILIKE pattern
// so it always matches literally. Postgres uses backslash as the default
// escape character.
func escapeLikePattern(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
