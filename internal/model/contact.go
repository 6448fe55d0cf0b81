package model

import "time"

// Contact is the persisted data structure for a person in our address book.
// BirthDate, LastChangeTimestamp and PhoneNumber are optional; all other
// fields are always present once a contact has been stored.
type Contact struct {
	ID                  int64      `json:"id"                            db:"id"`
	Salutation          string     `json:"salutation"                    db:"salutation"`
	FirstName           string     `json:"firstName"                     db:"firstname"`
	LastName            string     `json:"lastName"                      db:"lastname"`
	DisplayName         string     `json:"displayName"                   db:"displayname"`
	BirthDate           *time.Time `json:"birthDate,omitempty"           db:"birthdate"`
	CreationTimestamp   time.Time  `json:"creationTimestamp"             db:"creationtimestamp"`
	LastChangeTimestamp *time.Time `json:"lastChangeTimestamp,omitempty" db:"lastchangetimestamp"`
	Email               string     `json:"email"                         db:"email"`
	PhoneNumber         *string    `json:"phoneNumber,omitempty"         db:"phonenumber"`
}

// ContactRequest is the payload submitted by a caller to create or update a
// contact. Create and update share the same shape and the same validation
// rules. The id and both timestamps are never taken from the caller.
type ContactRequest struct {
	Salutation  string     `json:"salutation"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName"`
	BirthDate   *time.Time `json:"birthDate"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
}

// DisplayNameOrDefault returns the submitted display name, or the default
// "<salutation> <firstName> <lastName>" if the caller left it blank.
func (r ContactRequest) DisplayNameOrDefault() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Salutation + " " + r.FirstName + " " + r.LastName
}

// ContactResponse is the read-facing shape of a contact. It carries all
// persisted fields plus the derived NotifyHasBirthdaySoon flag, which is
// recomputed on every read and never stored.
type ContactResponse struct {
	ID                    int64      `json:"id"`
	Salutation            string     `json:"salutation"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	DisplayName           string     `json:"displayName"`
	BirthDate             *time.Time `json:"birthDate,omitempty"`
	CreationTimestamp     time.Time  `json:"creationTimestamp"`
	LastChangeTimestamp   *time.Time `json:"lastChangeTimestamp,omitempty"`
	NotifyHasBirthdaySoon bool       `json:"notifyHasBirthdaySoon"`
	Email                 string     `json:"email"`
	PhoneNumber           *string    `json:"phoneNumber,omitempty"`
}

// NewContactResponse projects a stored contact into its response shape,
// evaluating the birthday window against the given instant.
func NewContactResponse(contact Contact, now time.Time) ContactResponse {
	return ContactResponse{
		ID:                    contact.ID,
		Salutation:            contact.Salutation,
		FirstName:             contact.FirstName,
		LastName:              contact.LastName,
		DisplayName:           contact.DisplayName,
		BirthDate:             contact.BirthDate,
		CreationTimestamp:     contact.CreationTimestamp,
		LastChangeTimestamp:   contact.LastChangeTimestamp,
		NotifyHasBirthdaySoon: HasBirthdaySoon(contact.BirthDate, now),
		Email:                 contact.Email,
		PhoneNumber:           contact.PhoneNumber,
	}
}

// HasBirthdaySoon reports whether the next occurrence of the birth date's
// month and day, regardless of birth year, falls strictly after today's UTC
// date and strictly before 14 days from today. A contact without a birth
// date never has a birthday soon. A birthday today does not count.
func HasBirthdaySoon(birthDate *time.Time, now time.Time) bool {
	if birthDate == nil {
		return false
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(today.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next.After(today) && next.Before(today.AddDate(0, 0, 14))
}
