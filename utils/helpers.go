package utils

import (
	"html"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]{7,}$`)
)

// ValidateEmail accepts a single local@domain.tld address made of ASCII
// characters without whitespace.
func ValidateEmail(email string) bool {
	if !isASCII(email) {
		return false
	}
	return emailRegex.MatchString(email)
}

// ValidatePhone accepts an optional leading "+" followed by at least seven
// digits, spaces, hyphens or parentheses.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// EscapeHTML escapes &, <, >, " and ' so the result is safe inside element
// content and quoted attribute values.
func EscapeHTML(input string) string {
	return html.EscapeString(input)
}

// FormatAddress renders a display name and address as a From header value.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

// MaskEmail hides most of the local part, for log lines.
func MaskEmail(email string) string {
	if len(email) < 5 {
		return email
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) > 2 {
		maskedUsername := string(username[0]) + "***" + string(username[len(username)-1])
		return maskedUsername + "@" + domain
	}

	return username + "@" + domain
}
