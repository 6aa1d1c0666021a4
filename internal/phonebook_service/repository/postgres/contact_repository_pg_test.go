package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n-utty/PhoneBookAPI/internal/phonebook_service/domain"
)

const (
	selectContactByIDQuery    = `SELECT id, name, phone_number, email, created_at, updated_at FROM contacts WHERE id = \$1`
	selectContactByPhoneQuery = `SELECT id, name, phone_number, email, created_at, updated_at FROM contacts WHERE phone_number = \$1`
	listContactsQuery         = `SELECT id, name, phone_number, email, created_at, updated_at FROM contacts ORDER BY name ASC, phone_number ASC`
	insertContactQuery        = `INSERT INTO contacts \(id, name, phone_number, email, created_at, updated_at\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`
	updateContactQuery        = `UPDATE contacts SET name = \$1, phone_number = \$2, email = \$3, updated_at = \$4 WHERE id = \$5`
	deleteContactQuery        = `DELETE FROM contacts WHERE id = \$1`
)

var contactRowColumns = []string{"id", "name", "phone_number", "email", "created_at", "updated_at"}

func setupContactRepoTest(t *testing.T) (*PgContactRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewPgContactRepository(mockPool, logger)
	return repo, mockPool
}

func uniqueViolationErr() *pgconn.PgError {
	return &pgconn.PgError{Code: "23505", ConstraintName: "idx_contacts_phone_number"}
}

func TestPgContactRepository_Create(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	contact := domain.NewContact(uuid.New(), "John Doe", "+11234567890", "john@example.com")

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(insertContactQuery).
			WithArgs(contact.ID, contact.Name, contact.PhoneNumber, contact.Email, contact.CreatedAt, contact.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(context.Background(), contact)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicatePhoneNumber", func(t *testing.T) {
		mockPool.ExpectExec(insertContactQuery).
			WithArgs(contact.ID, contact.Name, contact.PhoneNumber, contact.Email, contact.CreatedAt, contact.UpdatedAt).
			WillReturnError(uniqueViolationErr())

		err := repo.Create(context.Background(), contact)
		require.ErrorIs(t, err, domain.ErrDuplicatePhoneNumber)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectExec(insertContactQuery).
			WithArgs(contact.ID, contact.Name, contact.PhoneNumber, contact.Email, contact.CreatedAt, contact.UpdatedAt).
			WillReturnError(dbErr)

		err := repo.Create(context.Background(), contact)
		require.Error(t, err)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_GetByID(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	contactID := uuid.New()
	createdAt := time.Now().UTC().Add(-24 * time.Hour)
	updatedAt := time.Now().UTC().Add(-1 * time.Hour)

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows(contactRowColumns).
			AddRow(contactID, "John Doe", "+11234567890", "john@example.com", createdAt, &updatedAt)

		mockPool.ExpectQuery(selectContactByIDQuery).
			WithArgs(contactID).
			WillReturnRows(rows)

		contact, err := repo.GetByID(context.Background(), contactID)
		require.NoError(t, err)
		require.NotNil(t, contact)
		assert.Equal(t, contactID, contact.ID)
		assert.Equal(t, "John Doe", contact.Name)
		assert.Equal(t, "+11234567890", contact.PhoneNumber)
		require.NotNil(t, contact.UpdatedAt)
		assert.True(t, updatedAt.Equal(*contact.UpdatedAt))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("FoundNeverUpdated", func(t *testing.T) {
		rows := mockPool.NewRows(contactRowColumns).
			AddRow(contactID, "John Doe", "+11234567890", "", createdAt, nil)

		mockPool.ExpectQuery(selectContactByIDQuery).
			WithArgs(contactID).
			WillReturnRows(rows)

		contact, err := repo.GetByID(context.Background(), contactID)
		require.NoError(t, err)
		require.NotNil(t, contact)
		assert.Nil(t, contact.UpdatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(selectContactByIDQuery).
			WithArgs(contactID).
			WillReturnError(pgx.ErrNoRows)

		contact, err := repo.GetByID(context.Background(), contactID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, contact)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectQuery(selectContactByIDQuery).
			WithArgs(contactID).
			WillReturnError(dbErr)

		contact, err := repo.GetByID(context.Background(), contactID)
		require.Error(t, err)
		assert.Nil(t, contact)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_List(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	t.Run("Success", func(t *testing.T) {
		createdAt := time.Now().UTC()
		rows := mockPool.NewRows(contactRowColumns).
			AddRow(uuid.New(), "Jane Doe", "+19876543210", "", createdAt, nil).
			AddRow(uuid.New(), "John Doe", "+11234567890", "john@example.com", createdAt, nil)

		mockPool.ExpectQuery(listContactsQuery).WillReturnRows(rows)

		contacts, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Jane Doe", contacts[0].Name)
		assert.Equal(t, "John Doe", contacts[1].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mockPool.ExpectQuery(listContactsQuery).WillReturnRows(mockPool.NewRows(contactRowColumns))

		contacts, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, contacts)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectQuery(listContactsQuery).WillReturnError(dbErr)

		contacts, err := repo.List(context.Background())
		require.Error(t, err)
		assert.Nil(t, contacts)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_Update(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	updatedAt := time.Now().UTC()
	contact := &domain.Contact{
		ID:          uuid.New(),
		Name:        "Johnny Doe",
		PhoneNumber: "+15550001111",
		Email:       "johnny@example.com",
		CreatedAt:   time.Now().UTC().Add(-24 * time.Hour),
		UpdatedAt:   &updatedAt,
	}

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(updateContactQuery).
			WithArgs(contact.Name, contact.PhoneNumber, contact.Email, contact.UpdatedAt, contact.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(context.Background(), contact)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec(updateContactQuery).
			WithArgs(contact.Name, contact.PhoneNumber, contact.Email, contact.UpdatedAt, contact.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(context.Background(), contact)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicatePhoneNumber", func(t *testing.T) {
		mockPool.ExpectExec(updateContactQuery).
			WithArgs(contact.Name, contact.PhoneNumber, contact.Email, contact.UpdatedAt, contact.ID).
			WillReturnError(uniqueViolationErr())

		err := repo.Update(context.Background(), contact)
		require.ErrorIs(t, err, domain.ErrDuplicatePhoneNumber)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectExec(updateContactQuery).
			WithArgs(contact.Name, contact.PhoneNumber, contact.Email, contact.UpdatedAt, contact.ID).
			WillReturnError(dbErr)

		err := repo.Update(context.Background(), contact)
		require.Error(t, err)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_Delete(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	contactID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(deleteContactQuery).
			WithArgs(contactID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(context.Background(), contactID)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec(deleteContactQuery).
			WithArgs(contactID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), contactID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectExec(deleteContactQuery).
			WithArgs(contactID).
			WillReturnError(dbErr)

		err := repo.Delete(context.Background(), contactID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_Search(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	searchQuery := `SELECT id, name, phone_number, email, created_at, updated_at FROM contacts ` +
		`WHERE name ILIKE \$1 OR phone_number LIKE \$2 ORDER BY name ASC, phone_number ASC`

	t.Run("MatchesNameOrPhone", func(t *testing.T) {
		rows := mockPool.NewRows(contactRowColumns).
			AddRow(uuid.New(), "John Doe", "+11234567890", "", time.Now().UTC(), nil)

		mockPool.ExpectQuery(searchQuery).
			WithArgs("%doe%", "%doe%").
			WillReturnRows(rows)

		contacts, err := repo.Search(context.Background(), domain.ContactQuery{
			NameContains:  "doe",
			PhoneContains: "doe",
		})
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "John Doe", contacts[0].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("EscapesLikeWildcards", func(t *testing.T) {
		// "50%" must match the literal three characters, not act as a pattern.
		mockPool.ExpectQuery(searchQuery).
			WithArgs(`%50\%%`, `%50\%%`).
			WillReturnRows(mockPool.NewRows(contactRowColumns))

		contacts, err := repo.Search(context.Background(), domain.ContactQuery{
			NameContains:  "50%",
			PhoneContains: "50%",
		})
		require.NoError(t, err)
		assert.Empty(t, contacts)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NameOnly", func(t *testing.T) {
		nameOnlyQuery := `SELECT id, name, phone_number, email, created_at, updated_at FROM contacts ` +
			`WHERE name ILIKE \$1 ORDER BY name ASC, phone_number ASC`
		mockPool.ExpectQuery(nameOnlyQuery).
			WithArgs("%jane%").
			WillReturnRows(mockPool.NewRows(contactRowColumns))

		contacts, err := repo.Search(context.Background(), domain.ContactQuery{NameContains: "jane"})
		require.NoError(t, err)
		assert.Empty(t, contacts)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectQuery(searchQuery).
			WithArgs("%doe%", "%doe%").
			WillReturnError(dbErr)

		contacts, err := repo.Search(context.Background(), domain.ContactQuery{
			NameContains:  "doe",
			PhoneContains: "doe",
		})
		require.Error(t, err)
		assert.Nil(t, contacts)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_FindByPhoneNumber(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	phoneNumber := "+11234567890"

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows(contactRowColumns).
			AddRow(uuid.New(), "John Doe", phoneNumber, "", time.Now().UTC(), nil)

		mockPool.ExpectQuery(selectContactByPhoneQuery).
			WithArgs(phoneNumber).
			WillReturnRows(rows)

		contact, err := repo.FindByPhoneNumber(context.Background(), phoneNumber)
		require.NoError(t, err)
		require.NotNil(t, contact)
		assert.Equal(t, phoneNumber, contact.PhoneNumber)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(selectContactByPhoneQuery).
			WithArgs(phoneNumber).
			WillReturnError(pgx.ErrNoRows)

		contact, err := repo.FindByPhoneNumber(context.Background(), phoneNumber)
		require.NoError(t, err) // no match is not an error here
		assert.Nil(t, contact)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("database error")
		mockPool.ExpectQuery(selectContactByPhoneQuery).
			WithArgs(phoneNumber).
			WillReturnError(dbErr)

		contact, err := repo.FindByPhoneNumber(context.Background(), phoneNumber)
		require.Error(t, err)
		assert.Nil(t, contact)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgContactRepository_EnsureSchema(t *testing.T) {
	repo, mockPool := setupContactRepoTest(t)
	defer mockPool.Close()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(`CREATE TABLE IF NOT EXISTS contacts`).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		err := repo.EnsureSchema(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		dbErr := errors.New("permission denied")
		mockPool.ExpectExec(`CREATE TABLE IF NOT EXISTS contacts`).
			WillReturnError(dbErr)

		err := repo.EnsureSchema(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), dbErr.Error())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
