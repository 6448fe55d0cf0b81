package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"gitlab.com/dirk.krummacker/contact-api/internal/model"
)

// fixedNow is the instant the fake clock returns in all store tests.
var fixedNow = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// contactColumns lists the columns of the contacts table in schema order.
var contactColumns = []string{
	"id", "salutation", "firstname", "lastname", "displayname",
	"birthdate", "creationtimestamp", "lastchangetimestamp", "email", "phonenumber",
}

// expectPreparedStatements instructs the mock object to expect that all
// statements of the store are being prepared, in construction order.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE id")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE email")
	mock.ExpectPrepare("UPDATE contacts")
	mock.ExpectPrepare("DELETE FROM contacts")
}

// newMockStore builds a store on top of a mock database with a fake clock.
func newMockStore(t *testing.T) (*ContactStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	expectPreparedStatements(mock)
	s, err := NewContactStore(sqlx.NewDb(db, "mysql"))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when preparing the store", err)
	}
	s.now = func() time.Time { return fixedNow }
	return s, mock, func() { db.Close() }
}

// draft returns a valid create/update payload.
func draft() model.ContactRequest {
	return model.ContactRequest{
		Salutation:  "Mr",
		FirstName:   "John",
		LastName:    "Doe",
		DisplayName: "Mr John Doe",
		Email:       "john.doe@example.com",
	}
}

// TestCreate checks that a new contact is stored with the current UTC time
// as creation timestamp, no last-change timestamp, and the id assigned by
// the database.
func TestCreate(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Mr", "John", "Doe", "Mr John Doe", nil, fixedNow, nil, "john.doe@example.com", nil).
		WillReturnResult(sqlmock.NewResult(42, 1))

	created, err := s.Create(draft())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, fixedNow, created.CreationTimestamp)
	assert.Nil(t, created.LastChangeTimestamp)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestFindByID checks the lookup of one contact by id.
func TestFindByID(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	rows := mock.NewRows(contactColumns).
		AddRow(29, "Mr", "John", "Doe", "Mr John Doe",
			nil, fixedNow, nil, "john.doe@example.com", nil)
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id").
		WithArgs(int64(29)).
		WillReturnRows(rows)

	contact, err := s.FindByID(29)
	assert.NoError(t, err)
	assert.NotNil(t, contact)
	assert.Equal(t, int64(29), contact.ID)
	assert.Equal(t, "john.doe@example.com", contact.Email)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestFindByIDAbsent checks that a missing id yields nil without an error.
func TestFindByIDAbsent(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id").
		WithArgs(int64(9999)).
		WillReturnRows(mock.NewRows(contactColumns))

	contact, err := s.FindByID(9999)
	assert.NoError(t, err)
	assert.Nil(t, contact)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestFindByEmailExcludesID checks that the conflict lookup passes the id
// to be excluded to the database, so a contact can keep its own email.
func TestFindByEmailExcludesID(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectQuery("SELECT \\* FROM contacts WHERE email").
		WithArgs("john.doe@example.com", int64(17)).
		WillReturnRows(mock.NewRows(contactColumns))

	contact, err := s.FindByEmail("john.doe@example.com", 17)
	assert.NoError(t, err)
	assert.Nil(t, contact)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListAll checks that all rows come back as response projections with
// the birthday flag evaluated against the store's clock.
func TestListAll(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	soonBirthday := time.Date(1990, time.January, 5, 0, 0, 0, 0, time.UTC)
	rows := mock.NewRows(contactColumns).
		AddRow(1, "Mr", "John", "Doe", "Mr John Doe",
			soonBirthday, fixedNow, nil, "john.doe@example.com", nil).
		AddRow(2, "Ms", "Jane", "Roe", "Ms Jane Roe",
			nil, fixedNow, nil, "jane.roe@example.com", nil)
	mock.ExpectQuery("SELECT \\* FROM contacts").
		WillReturnRows(rows)

	responses, err := s.ListAll()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(responses))
	assert.True(t, responses[0].NotifyHasBirthdaySoon)
	assert.False(t, responses[1].NotifyHasBirthdaySoon)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListAllEmpty checks that an empty table yields an empty, non-nil
// slice, so the API renders an empty JSON array instead of null.
func TestListAllEmpty(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectQuery("SELECT \\* FROM contacts").
		WillReturnRows(mock.NewRows(contactColumns))

	responses, err := s.ListAll()
	assert.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Equal(t, 0, len(responses))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUpdate checks that all mutable fields are overwritten and the
// last-change timestamp is stamped with the current UTC time.
func TestUpdate(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectExec("UPDATE contacts").
		WithArgs("Mr", "John", "Doe", "Mr John Doe", nil, fixedNow, "john.doe@example.com", nil, int64(17)).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	updated, err := s.Update(17, draft())
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, int64(17), updated.ID)
	assert.NotNil(t, updated.LastChangeTimestamp)
	assert.Equal(t, fixedNow, *updated.LastChangeTimestamp)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUpdateAbsent checks that updating a missing id yields nil without an
// error.
func TestUpdateAbsent(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectExec("UPDATE contacts").
		WithArgs("Mr", "John", "Doe", "Mr John Doe", nil, fixedNow, "john.doe@example.com", nil, int64(9999)).
		WillReturnResult(sqlmock.NewResult(-1, 0))

	updated, err := s.Update(9999, draft())
	assert.NoError(t, err)
	assert.Nil(t, updated)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteIdempotent checks that deleting succeeds whether or not a row
// was actually removed.
func TestDeleteIdempotent(t *testing.T) {
	s, mock, closer := newMockStore(t)
	defer closer()

	mock.ExpectExec("DELETE FROM contacts").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectExec("DELETE FROM contacts").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(-1, 0))

	assert.NoError(t, s.Delete(42))
	assert.NoError(t, s.Delete(42))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
