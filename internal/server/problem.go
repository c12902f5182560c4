package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/Olivia010207/NPS/internal/survey"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Render sets the response status for render.Render.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

// problemFor maps analysis errors onto HTTP statuses.
func problemFor(err error, r *http.Request) *Problem {
	p := &Problem{
		Type:      "/errors/bad-request",
		Title:     "Bad Request",
		Status:    http.StatusBadRequest,
		Detail:    err.Error(),
		Instance:  r.URL.Path,
		RequestID: middleware.GetReqID(r.Context()),
	}
	switch {
	case errors.Is(err, survey.ErrNotFound):
		p.Type, p.Title, p.Status = "/errors/not-found", "Question Not Found", http.StatusNotFound
	case errors.Is(err, survey.ErrTypeMismatch):
		p.Type, p.Title, p.Status = "/errors/type-mismatch", "Question Type Mismatch", http.StatusUnprocessableEntity
	case errors.Is(err, survey.ErrMissingArgument):
		p.Type, p.Title = "/errors/missing-argument", "Missing Argument"
	case errors.Is(err, context.DeadlineExceeded):
		p.Type, p.Title, p.Status = "/errors/timeout", "Request Timeout", http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		p.Type, p.Title, p.Status = "/errors/canceled", "Request Canceled", 499
	}
	return p
}
