// Package service exposes the contact store as a versioned REST API.
package service

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gitlab.com/dirk.krummacker/contact-api/internal/model"
	"gitlab.com/dirk.krummacker/contact-api/internal/problem"
	"gitlab.com/dirk.krummacker/contact-api/internal/store"
	"gitlab.com/dirk.krummacker/contact-api/internal/validation"
)

// Handler carries the dependencies of the HTTP handlers.
type Handler struct {
	contacts *store.ContactStore
	logger   zerolog.Logger
}

// NewHandler builds a Handler on top of the given contact store.
func NewHandler(contacts *store.ContactStore, logger zerolog.Logger) *Handler {
	return &Handler{contacts: contacts, logger: logger}
}

// SetupHttpRouter initializes the REST API router and registers all
// endpoints under the versioned path prefix. Request logging can be turned
// off for benchmarks and tests.
func SetupHttpRouter(h *Handler, requestLogging bool) *gin.Engine {
	var router *gin.Engine
	if requestLogging {
		router = gin.Default()
	} else {
		router = gin.New()
		router.Use(gin.Recovery())
	}
	v1 := router.Group("/api/v1")
	v1.GET("/contacts", h.findContacts)
	v1.POST("/contacts", h.createContact)
	v1.GET("/contacts/:id", h.findContactByID)
	v1.PUT("/contacts/:id", h.updateContactByID)
	v1.DELETE("/contacts/:id", h.deleteContactByID)
	return router
}

// respond is the single dispatcher that translates the outcome of a
// business operation into exactly one HTTP response. An internal error
// wins over a problem, a problem wins over the success payload. Internal
// errors surface as a bare 500 without a problem body.
func (h *Handler) respond(c *gin.Context, status int, body any, prob *problem.Problem, err error) {
	switch {
	case err != nil:
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("storage failure")
		c.AbortWithStatus(http.StatusInternalServerError)
	case prob != nil:
		c.AbortWithStatusJSON(prob.Status, prob)
	case body == nil:
		c.Status(status)
	default:
		c.IndentedJSON(status, body)
	}
}

// parseID reads the id path parameter. A non-numeric id cannot belong to
// any contact, so it is answered like an unknown one, without reaching out
// to the database.
func parseID(c *gin.Context) (int64, *problem.Problem) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, problem.ContactNotFound()
	}
	return id, nil
}

// createContact validates the posted payload, rejects duplicate email
// addresses, fills in the default display name and stores the new contact.
// It responds with the stored record and a Location header pointing at the
// GET endpoint for the new id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"salutation": "Mr", "firstName": "John", "lastName": "Doe", "email": "john.doe@example.com"}'
func (h *Handler) createContact(c *gin.Context) {
	var draft model.ContactRequest
	if err := c.BindJSON(&draft); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, problem.InvalidRequest("invalid request body"))
		return
	}
	created, prob, err := h.create(draft)
	if prob == nil && err == nil {
		c.Header("Location", fmt.Sprintf("/api/v1/contacts/%d", created.ID))
	}
	h.respond(c, http.StatusCreated, created, prob, err)
}

// create runs the business flow for creating a contact.
func (h *Handler) create(draft model.ContactRequest) (model.Contact, *problem.Problem, error) {
	if result := validation.CheckContact(draft); !result.Valid() {
		return model.Contact{}, problem.InvalidRequest(result.First()), nil
	}
	existing, err := h.contacts.FindByEmail(draft.Email, 0)
	if err != nil {
		return model.Contact{}, nil, err
	}
	if existing != nil {
		return model.Contact{}, problem.EmailConflict(), nil
	}
	draft.DisplayName = draft.DisplayNameOrDefault()
	created, err := h.contacts.Create(draft)
	if err != nil {
		return model.Contact{}, nil, err
	}
	return created, nil, nil
}

// findContactByID responds with the response projection of the contact
// whose id matches the id path parameter.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts/56
func (h *Handler) findContactByID(c *gin.Context) {
	id, prob := parseID(c)
	if prob != nil {
		h.respond(c, 0, nil, prob, nil)
		return
	}
	response, prob, err := h.findByID(id)
	h.respond(c, http.StatusOK, response, prob, err)
}

// findByID runs the business flow for reading a single contact.
func (h *Handler) findByID(id int64) (model.ContactResponse, *problem.Problem, error) {
	contact, err := h.contacts.FindByID(id)
	if err != nil {
		return model.ContactResponse{}, nil, err
	}
	if contact == nil {
		return model.ContactResponse{}, problem.ContactNotFound(), nil
	}
	return model.NewContactResponse(*contact, time.Now().UTC()), nil, nil
}

// findContacts responds with the response projections of all contacts. An
// empty list is a valid, successful result.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts
func (h *Handler) findContacts(c *gin.Context) {
	responses, err := h.contacts.ListAll()
	h.respond(c, http.StatusOK, responses, nil, err)
}

// updateContactByID validates the payload, checks that the target contact
// exists and that the submitted email does not belong to a different
// contact, then overwrites all mutable fields. A successful update has no
// response body.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"salutation": "Mr", "firstName": "John", "lastName": "Doe", "email": "john.doe@example.com", "phoneNumber": "123456"}'
func (h *Handler) updateContactByID(c *gin.Context) {
	id, prob := parseID(c)
	if prob != nil {
		h.respond(c, 0, nil, prob, nil)
		return
	}
	var draft model.ContactRequest
	if err := c.BindJSON(&draft); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, problem.InvalidRequest("invalid request body"))
		return
	}
	prob, err := h.update(id, draft)
	h.respond(c, http.StatusNoContent, nil, prob, err)
}

// update runs the business flow for updating a contact.
func (h *Handler) update(id int64, draft model.ContactRequest) (*problem.Problem, error) {
	if result := validation.CheckContact(draft); !result.Valid() {
		return problem.InvalidRequest(result.First()), nil
	}
	target, err := h.contacts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return problem.ContactNotFound(), nil
	}
	// The contact may keep its own email, so the conflict check excludes
	// the target id.
	existing, err := h.contacts.FindByEmail(draft.Email, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return problem.EmailConflict(), nil
	}
	draft.DisplayName = draft.DisplayNameOrDefault()
	updated, err := h.contacts.Update(id, draft)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return problem.ContactNotFound(), nil
	}
	return nil, nil
}

// deleteContactByID removes the contact with the given id. The operation
// is idempotent: deleting a nonexistent id succeeds as well.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/contacts/56 --request "DELETE"
func (h *Handler) deleteContactByID(c *gin.Context) {
	id, prob := parseID(c)
	if prob != nil {
		h.respond(c, 0, nil, prob, nil)
		return
	}
	err := h.contacts.Delete(id)
	h.respond(c, http.StatusNoContent, nil, nil, err)
}
