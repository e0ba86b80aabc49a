package domain

// ContactMessage is a contact-form submission. It is relayed by email and
// never stored.
type ContactMessage struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Message string `validate:"required"`
}
