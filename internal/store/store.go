// Package store is the sole owner of persisted contact state. All reads
// and writes of the contacts table pass through the ContactStore.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/contact-api/internal/config"
	"gitlab.com/dirk.krummacker/contact-api/internal/model"
)

// ContactStore executes all SQL against the contacts table. Statements are
// prepared once at construction time; prepared statements offer a
// significant speed increase if executed many times.
type ContactStore struct {
	db *sqlx.DB

	// now supplies the UTC instant used for timestamp stamping. Tests
	// replace it with a fixed clock.
	now func() time.Time

	insert           *sqlx.NamedStmt
	selectWhereID    *sqlx.Stmt
	selectWhereEmail *sqlx.Stmt
	update           *sqlx.NamedStmt
	deleteWhereID    *sqlx.Stmt
}

// OpenDatabase connects to the MySQL server described by the configuration
// and returns the sqlx wrapper around the connection.
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return sqlx.NewDb(sqlDB, "mysql"), nil
}

// NewContactStore prepares all statements on the given database handle. The
// handle can be a real database for production use or a mock database
// within unit tests.
func NewContactStore(db *sqlx.DB) (*ContactStore, error) {
	s := &ContactStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	var err error
	s.insert, err = db.PrepareNamed(`
		INSERT INTO contacts
			(salutation, firstname, lastname, displayname, birthdate,
			 creationtimestamp, lastchangetimestamp, email, phonenumber)
		VALUES
			(:salutation, :firstname, :lastname, :displayname, :birthdate,
			 :creationtimestamp, :lastchangetimestamp, :email, :phonenumber)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.selectWhereID, err = db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select by id: %w", err)
	}
	s.selectWhereEmail, err = db.Preparex(`
		SELECT * FROM contacts WHERE email = ? AND id <> ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select by email: %w", err)
	}
	s.update, err = db.PrepareNamed(`
		UPDATE contacts
		SET salutation = :salutation,
			firstname = :firstname,
			lastname = :lastname,
			displayname = :displayname,
			birthdate = :birthdate,
			lastchangetimestamp = :lastchangetimestamp,
			email = :email,
			phonenumber = :phonenumber
		WHERE id = :id
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare update: %w", err)
	}
	s.deleteWhereID, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	return s, nil
}

// Create persists a new contact from the given draft. It stamps the
// creation timestamp with the current UTC time, leaves the last-change
// timestamp unset, and returns the stored record including its new id.
func (s *ContactStore) Create(draft model.ContactRequest) (model.Contact, error) {
	contact := model.Contact{
		Salutation:        draft.Salutation,
		FirstName:         draft.FirstName,
		LastName:          draft.LastName,
		DisplayName:       draft.DisplayName,
		BirthDate:         draft.BirthDate,
		CreationTimestamp: s.now(),
		Email:             draft.Email,
		PhoneNumber:       draft.PhoneNumber,
	}
	result, err := s.insert.Exec(contact)
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	contact.ID = id
	return contact, nil
}

// FindByID returns the contact with the given id, or nil if no such
// contact exists. Absence is not an error; the caller decides whether it
// is one.
func (s *ContactStore) FindByID(id int64) (*model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectWhereID.Select(&contacts, id); err != nil {
		return nil, fmt.Errorf("select contact %d: %w", id, err)
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// FindByEmail returns a contact with exactly the given email address, or
// nil if there is none. A contact with id excludeID is ignored, so that an
// update can keep the contact's own email; pass 0 to exclude nothing (ids
// start at 1).
func (s *ContactStore) FindByEmail(email string, excludeID int64) (*model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectWhereEmail.Select(&contacts, email, excludeID); err != nil {
		return nil, fmt.Errorf("select contact by email: %w", err)
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// ListAll returns the response projections of all contacts in enumeration
// order. The birthday window of every projection is evaluated against the
// same instant. An empty table yields an empty, non-nil slice.
func (s *ContactStore) ListAll() ([]model.ContactResponse, error) {
	var contacts []model.Contact
	if err := s.db.Select(&contacts, "SELECT * FROM contacts"); err != nil {
		return nil, fmt.Errorf("select all contacts: %w", err)
	}
	now := s.now()
	responses := make([]model.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, model.NewContactResponse(contact, now))
	}
	return responses, nil
}

// Update overwrites all mutable fields of the contact with the given id
// and stamps the last-change timestamp with the current UTC time. The
// creation timestamp is never touched. It returns nil if no such contact
// exists. The returned record reflects the submitted fields; it does not
// re-read the creation timestamp.
func (s *ContactStore) Update(id int64, draft model.ContactRequest) (*model.Contact, error) {
	lastChange := s.now()
	contact := model.Contact{
		ID:                  id,
		Salutation:          draft.Salutation,
		FirstName:           draft.FirstName,
		LastName:            draft.LastName,
		DisplayName:         draft.DisplayName,
		BirthDate:           draft.BirthDate,
		LastChangeTimestamp: &lastChange,
		Email:               draft.Email,
		PhoneNumber:         draft.PhoneNumber,
	}
	result, err := s.update.Exec(contact)
	if err != nil {
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}
	// The last-change timestamp always changes, so an existing row always
	// reports at least one affected row.
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}
	return &contact, nil
}

// Delete removes the contact with the given id. Deleting a nonexistent id
// is a no-op, not an error.
func (s *ContactStore) Delete(id int64) error {
	if _, err := s.deleteWhereID.Exec(id); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}
