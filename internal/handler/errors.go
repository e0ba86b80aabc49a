package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/adibus/fleet/internal/domain"
)

// ErrorResponse is the body of every 4xx/5xx answer.
// Fields is set only for request-shape validation failures and maps a JSON
// field name to what is wrong with it.
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error codes carried in ErrorResponse.Code.
const (
	codeValidation = "validation_error"
	codeDuplicate  = "duplicate_key"
	codeNotFound   = "not_found"
	codeTooLarge   = "request_too_large"
	codeDependency = "dependency_failure"
	codeInternal   = "internal_error"
	genericFailure = "Something went wrong!"
)

// writeServiceError maps a service error onto an HTTP response.
// notFoundMsg names what was being looked up (e.g. "Bus not found").
// Unrecognised errors are logged and answered with a generic 500 so no
// internal detail reaches the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: notFoundMsg, Code: codeNotFound})
	case errors.Is(err, domain.ErrDuplicateKey):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: detail(err, domain.ErrDuplicateKey), Code: codeDuplicate})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: detail(err, domain.ErrValidation), Code: codeValidation})
	case errors.Is(err, domain.ErrDependency):
		s.logError(r, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: genericFailure, Code: codeDependency})
	default:
		s.internalError(w, r, err)
	}
}

// internalError logs err with the request ID and writes a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: genericFailure, Code: codeInternal})
}

func (s *Server) logError(r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"error", err,
	)
}

// writeDecodeError answers a body that could not be read or parsed.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Message: err.Error(), Code: codeTooLarge})
		return
	}
	msg := err.Error()
	if !errors.Is(err, errEmptyBody) {
		msg = "malformed JSON body"
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: msg, Code: codeValidation})
}

// detail extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.BusService.Create: validation error: route is required"
// becomes "route is required".
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation on a decoded request body and, on
// failure, writes a 400 with one entry per offending field. It reports
// whether the request may proceed.
func (s *Server) validateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	err := s.validate.StructCtx(r.Context(), req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.internalError(w, r, err)
		return false
	}

	fields := make(map[string]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		m := fieldMessage(fe)
		fields[fe.Field()] = m
		msgs = append(msgs, fe.Field()+" "+m)
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: strings.Join(msgs, "; "),
		Code:    codeValidation,
		Fields:  fields,
	})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
