// internal/email/mailer/license_allocated.go
package mailer

import "github.com/parlohq/licenser/internal/email"

// LicenseAllocatedTemplateData contains data for the allocation email template
type LicenseAllocatedTemplateData struct {
	FirstName        string
	OrganizationName string
	LicenseNumber    string
}

// SendLicenseAllocatedEmail notifies an identity that a license was
// allocated to it.
func SendLicenseAllocatedEmail(s *email.Service, to, firstName, organizationName, licenseNumber string) error {
	templateData := LicenseAllocatedTemplateData{
		FirstName:        firstName,
		OrganizationName: organizationName,
		LicenseNumber:    licenseNumber,
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "Parlo",
		Subject:      "Your Parlo license is ready",
		TemplateName: "license_allocated",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
