package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/adibus/fleet/internal/domain"
)

var adminTmpl = template.Must(template.New("admin").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Message:</strong></p>
    <div style="background: white; padding: 15px; border-radius: 4px; margin-top: 10px;">{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</div>
  </div>
  <p style="color: #7f8c8d; font-size: 14px;">This message was sent from the ADIBUS contact form.</p>
</div>`))

var confirmTmpl = template.Must(template.New("confirm").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">Thank You for Contacting Us!</h2>
  <div style="background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p>Dear {{.Name}},</p>
    <p>Thank you for reaching out to ADIBUS. We have received your message and will get back to you as soon as possible.</p>
    <p><strong>Your message:</strong></p>
    <div style="background: white; padding: 15px; border-radius: 4px; margin: 10px 0;">{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</div>
    <p>We typically respond within 24-48 hours during business days.</p>
  </div>
  <div style="background: linear-gradient(135deg, #3498db, #2c3e50); color: white; padding: 20px; border-radius: 8px; text-align: center;">
    <h3>ADIBUS</h3>
    <p>Your trusted bus operation management partner</p>
  </div>
</div>`))

type contactView struct {
	Name  string
	Email string
	Lines []string
}

// ContactMessages renders the admin notification and the submitter's
// confirmation for c. User input is HTML-escaped by the templates.
func ContactMessages(c domain.ContactMessage, adminAddr string) ([]Message, error) {
	view := contactView{
		Name:  c.Name,
		Email: c.Email,
		Lines: strings.Split(strings.ReplaceAll(c.Message, "\r\n", "\n"), "\n"),
	}

	var admin, confirm bytes.Buffer
	if err := adminTmpl.Execute(&admin, view); err != nil {
		return nil, fmt.Errorf("mailer.ContactMessages: admin: %w", err)
	}
	if err := confirmTmpl.Execute(&confirm, view); err != nil {
		return nil, fmt.Errorf("mailer.ContactMessages: confirmation: %w", err)
	}

	return []Message{
		{
			To:      adminAddr,
			Subject: "New Contact Form Submission from " + c.Name,
			HTML:    admin.String(),
		},
		{
			To:      c.Email,
			Subject: "Thank you for contacting ADIBUS",
			HTML:    confirm.String(),
		},
	}, nil
}
