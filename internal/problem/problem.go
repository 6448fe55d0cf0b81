// Package problem defines the structured error payload that the API
// returns for every expected failure. The shape follows RFC 7807.
package problem

import "net/http"

// Type URIs point at the HTTP status semantics each problem corresponds to.
const (
	typeBadRequest = "https://tools.ietf.org/html/rfc7231#section-6.5.1"
	typeNotFound   = "https://tools.ietf.org/html/rfc7231#section-6.5.4"
	typeConflict   = "https://tools.ietf.org/html/rfc7231#section-6.5.8"
)

// Problem is the error document sent to the caller. Internal errors never
// surface through it; they result in a bare 500 instead.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// InvalidRequest builds the 400 problem for a payload that failed
// validation. The detail carries the first failing rule's message.
func InvalidRequest(detail string) *Problem {
	return &Problem{
		Type:   typeBadRequest,
		Title:  "One or more validation errors occurred",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

// ContactNotFound builds the 404 problem for an unknown contact id.
func ContactNotFound() *Problem {
	return &Problem{
		Type:   typeNotFound,
		Title:  "Contact could not be found",
		Status: http.StatusNotFound,
		Detail: "Contact could not be found",
	}
}

// EmailConflict builds the 409 problem for an email address that already
// belongs to another contact.
func EmailConflict() *Problem {
	return &Problem{
		Type:   typeConflict,
		Title:  "Contact already exists with the email",
		Status: http.StatusConflict,
		Detail: "Contact already exists with the email",
	}
}
