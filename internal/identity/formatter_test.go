package identity_test

import (
	"testing"

	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	formatter := identity.NewFormatter("+971")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "local number gets default country code",
			input: "0501234567",
			want:  "+971501234567",
		},
		{
			name:  "already canonical number is unchanged",
			input: "+14155551234",
			want:  "+14155551234",
		},
		{
			name:  "separators and spaces are stripped",
			input: "+1 (415) 555-1234",
			want:  "+14155551234",
		},
		{
			name:  "local number with separators",
			input: "050 123 4567",
			want:  "+971501234567",
		},
		{
			name:    "letters are not a phone number",
			input:   "abc",
			wantErr: domain.ErrInvalidPhoneFormat,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: domain.ErrInvalidPhoneFormat,
		},
		{
			name:    "plus with leading zero never matches",
			input:   "+0501234567",
			wantErr: domain.ErrInvalidPhoneFormat,
		},
		{
			name:    "too long for E.164",
			input:   "+123456789012345678",
			wantErr: domain.ErrInvalidPhoneFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatter.NormalizePhone(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhoneOtherCountryCode(t *testing.T) {
	formatter := identity.NewFormatter("+44")

	got, err := formatter.NormalizePhone("07911123456")
	assert.NoError(t, err)
	assert.Equal(t, "+447911123456", got)
}
