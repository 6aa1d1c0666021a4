package postgres

import (
	"context"
	"fmt"
)

// Schema is intentionally a single table; the unique index on phone_number
// backs the application-level uniqueness pre-check against write races.
const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
    id           UUID PRIMARY KEY,
    name         VARCHAR(100) NOT NULL,
    phone_number VARCHAR(20)  NOT NULL,
    email        VARCHAR(100) NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ  NOT NULL,
    updated_at   TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_phone_number ON contacts (phone_number);
`

// EnsureSchema creates the contacts table and its unique phone number index
// if they do not exist yet. Called once at startup.
func (r *PgContactRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createContactsTable); err != nil {
		return fmt.Errorf("ensuring contacts schema: %w", err)
	}
	r.logger.InfoContext(ctx, "Contacts schema ensured")
	return nil
}
