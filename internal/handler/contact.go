package handler

import (
	"errors"
	"net/http"

	"github.com/adibus/fleet/internal/domain"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// SubmitContact handles POST /api/contact.
// Field checks are left to the contact service so that a rejected form never
// reaches the mailer. Every answer, success or not, is a contactResponse.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		status, msg := http.StatusBadRequest, "malformed JSON body"
		switch {
		case errors.Is(err, errBodyTooLarge):
			status, msg = http.StatusRequestEntityTooLarge, err.Error()
		case errors.Is(err, errEmptyBody):
			msg = err.Error()
		}
		writeJSON(w, status, contactResponse{Message: msg})
		return
	}

	err := s.contact.Submit(r.Context(), domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, contactResponse{
			Message: "Message sent successfully! We will get back to you soon.",
			Success: true,
		})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, contactResponse{Message: detail(err, domain.ErrValidation)})
	default:
		s.logError(r, err)
		writeJSON(w, http.StatusInternalServerError, contactResponse{
			Message: "Failed to send message. Please try again later.",
		})
	}
}
