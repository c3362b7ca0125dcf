// internal/email/mailer/pool_exhausted.go
package mailer

import "github.com/parlohq/licenser/internal/email"

// PoolExhaustedTemplateData contains data for the exhaustion email template
type PoolExhaustedTemplateData struct {
	OrganizationName string
	TotalSeats       int
}

// SendPoolExhaustedEmail warns a license manager that the organization has
// no seats left.
func SendPoolExhaustedEmail(s *email.Service, to, organizationName string, totalSeats int) error {
	templateData := PoolExhaustedTemplateData{
		OrganizationName: organizationName,
		TotalSeats:       totalSeats,
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "Parlo",
		Subject:      "License pool exhausted for " + organizationName,
		TemplateName: "pool_exhausted",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
