package licenser

import "embed"

// EmailFS holds the html/plaintext email template pairs shipped with the
// service. Each subdirectory of templates/emails is one message type.
//
//go:embed templates/emails
var EmailFS embed.FS
