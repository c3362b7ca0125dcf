// internal/identity/formatter.go
package identity

import (
	"regexp"
	"strings"

	"github.com/parlohq/licenser/internal/domain"
)

// e164Pattern is the international phone number format: a plus sign followed
// by 2 to 15 digits, no leading zero.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// Formatter normalizes raw phone input into canonical E.164 form. Pure,
// no I/O.
type Formatter struct {
	defaultCountryCode string
}

func NewFormatter(defaultCountryCode string) *Formatter {
	if defaultCountryCode == "" {
		defaultCountryCode = "+971"
	}
	return &Formatter{defaultCountryCode: defaultCountryCode}
}

// NormalizePhone strips everything but digits and a plus sign, then checks
// the result against E.164. Numbers without a leading plus get the default
// country calling code prepended (after dropping leading zeros) and are
// re-checked. Anything else fails with domain.ErrInvalidPhoneFormat.
func (f *Formatter) NormalizePhone(raw string) (string, error) {
	cleaned := stripPhone(raw)
	if e164Pattern.MatchString(cleaned) {
		return cleaned, nil
	}

	if !strings.HasPrefix(cleaned, "+") {
		withCode := f.defaultCountryCode + strings.TrimLeft(cleaned, "0")
		if e164Pattern.MatchString(withCode) {
			return withCode, nil
		}
	}

	return "", domain.ErrInvalidPhoneFormat
}

func stripPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
