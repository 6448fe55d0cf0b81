// Package validation checks contact create/update payloads against the
// field-level rules before any persistence is attempted.
package validation

import (
	"fmt"
	"strconv"

	"github.com/asaskevich/govalidator"
	"gitlab.com/dirk.krummacker/contact-api/internal/model"
)

// minNameLength is the smallest accepted length for salutation, first name
// and last name.
const minNameLength = 2

// FieldError describes one failed rule for one field.
type FieldError struct {
	Field   string
	Message string
}

// Result is the ordered list of failed rules. An empty result means the
// payload is valid.
type Result []FieldError

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// First returns the message of the first failed rule, or the empty string
// for a valid result. The API reports only this first message to the
// caller.
func (r Result) First() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Message
}

// CheckContact applies all field rules to a contact payload. The rules are
// identical for create and update:
//
//   - salutation, firstName, lastName: required, at least 2 characters
//   - email: required, syntactically valid email address
//   - phoneNumber: if present and non-empty, must parse entirely as an
//     integer greater than zero
//
// displayName and birthDate are unconstrained.
func CheckContact(request model.ContactRequest) Result {
	var result Result
	result = checkName(result, "salutation", request.Salutation)
	result = checkName(result, "firstName", request.FirstName)
	result = checkName(result, "lastName", request.LastName)
	if request.Email == "" {
		result = append(result, FieldError{
			Field:   "email",
			Message: "'email' must not be empty",
		})
	} else if !govalidator.IsEmail(request.Email) {
		result = append(result, FieldError{
			Field:   "email",
			Message: "'email' must be a valid email address",
		})
	}
	if request.PhoneNumber != nil && *request.PhoneNumber != "" {
		number, err := strconv.Atoi(*request.PhoneNumber)
		if err != nil || number <= 0 {
			result = append(result, FieldError{
				Field:   "phoneNumber",
				Message: "'phoneNumber' must be a positive whole number",
			})
		}
	}
	return result
}

// checkName applies the shared rule for the three mandatory name fields.
func checkName(result Result, field string, value string) Result {
	if value == "" {
		return append(result, FieldError{
			Field:   field,
			Message: fmt.Sprintf("'%s' must not be empty", field),
		})
	}
	if len(value) < minNameLength {
		return append(result, FieldError{
			Field:   field,
			Message: fmt.Sprintf("'%s' must be at least %d characters long", field, minNameLength),
		})
	}
	return result
}
