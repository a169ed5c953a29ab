package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jane@example.com", true},
		{"first.last+tag@mail.example.co.uk", true},
		{"bad-email", false},
		{"no-tld@example", false},
		{"two@@example.com", false},
		{"a@b@example.com", false},
		{"space in@example.com", false},
		{"jané@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"07911 123456", true},
		{"+44 (0)1789 123 456", true},
		{"555-1234", true},
		{"1234567", true},
		{"123", false},
		{"123456", false},
		{"++44123456789", false},
		{"0791112345x", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePhone(tt.phone))
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; &#34;Jerry&#34; &#39;x&#39;&lt;/b&gt;", EscapeHTML(`<b>Tom & "Jerry" 'x'</b>`))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 2, RuneLen("Zé"))
	assert.Equal(t, 0, RuneLen(""))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, `"Kings Court Hotel" <bookings@example.com>`, FormatAddress("Kings Court Hotel", "bookings@example.com"))
	assert.Equal(t, "bookings@example.com", FormatAddress("", "bookings@example.com"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***e@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "jo@example.com", MaskEmail("jo@example.com"))
	assert.Equal(t, "a@b", MaskEmail("a@b"))
	assert.Equal(t, "not-an-address", MaskEmail("not-an-address"))
}
