package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"time"
)

// sendWithSMTP delivers a license notice through the SMTP relay configured
// for this provider. Notices carry both an HTML and a plaintext body, so the
// message is always assembled as multipart/alternative.
func (s *Service) sendWithSMTP(data EmailData, htmlContent, textContent string) error {
	relay, ok := s.config.SMTP[string(s.provider)]
	if !ok {
		return fmt.Errorf("no SMTP relay configured for provider %s", s.provider)
	}

	if data.From == "" {
		data.From = relay.From
	}
	if data.From == "" {
		return fmt.Errorf("missing sender address for provider %s", s.provider)
	}

	msg := buildAlternativeMessage(data, htmlContent, textContent)

	auth := smtp.PlainAuth("", relay.Username, relay.Password, relay.Host)
	addr := fmt.Sprintf("%s:%d", relay.Host, relay.Port)

	if err := smtp.SendMail(addr, auth, data.From, []string{data.To}, msg); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	return nil
}

// buildAlternativeMessage assembles the multipart/alternative MIME body with
// base64-encoded plaintext and HTML parts.
func buildAlternativeMessage(data EmailData, htmlContent, textContent string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", data.FromName, data.From))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", data.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", data.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	boundary := fmt.Sprintf("_LICENSE_NOTICE_BOUNDARY_%d", time.Now().UnixNano())
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary))

	writePart := func(contentType, body string) {
		buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		buf.WriteString(fmt.Sprintf("Content-Type: %s; charset=utf-8\r\n", contentType))
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
		buf.WriteString("\r\n\r\n")
	}

	// Plaintext first: clients pick the last part they can render.
	writePart("text/plain", textContent)
	writePart("text/html", htmlContent)

	buf.WriteString(fmt.Sprintf("--%s--", boundary))

	return buf.Bytes()
}
