package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/mailer"
)

// MailSender delivers a batch of messages, failing as a whole.
// Satisfied by *mailer.SMTPSender and *mailer.LogSender.
type MailSender interface {
	Send(ctx context.Context, msgs ...mailer.Message) error
}

// ContactService relays contact-form submissions by email.
type ContactService struct {
	sender   MailSender
	admin    string
	validate *validator.Validate
}

// NewContactService constructs a ContactService that notifies adminAddr and
// confirms to the submitter through sender.
func NewContactService(sender MailSender, adminAddr string) *ContactService {
	return &ContactService{
		sender:   sender,
		admin:    adminAddr,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Submit validates msg, then sends the admin notification and the
// submitter's confirmation. Invalid input fails with domain.ErrValidation
// before any delivery is attempted. A delivery failure of either message
// fails the whole submission with domain.ErrDependency.
func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	if strings.TrimSpace(msg.Message) == "" {
		msg.Message = ""
	}
	if err := s.validate.StructCtx(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}

	msgs, err := mailer.ContactMessages(msg, s.admin)
	if err != nil {
		return fmt.Errorf("service.ContactService.Submit: %w", err)
	}
	if err := s.sender.Send(ctx, msgs...); err != nil {
		return fmt.Errorf("service.ContactService.Submit: %w: %w", domain.ErrDependency, err)
	}
	return nil
}

// describeValidation turns validator errors into one human-readable line,
// e.g. "email is required; name is required".
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
