package validator

import (
	"testing"

	"enquiry-mailer/models"

	"github.com/stretchr/testify/assert"
)

func submission(formType, name, email, phone, message string) *models.Submission {
	return models.NewSubmission(
		models.Field{Key: models.FieldFormType, Value: formType},
		models.Field{Key: models.FieldFullName, Value: name},
		models.Field{Key: models.FieldEmail, Value: email},
		models.Field{Key: models.FieldPhone, Value: phone},
		models.Field{Key: models.FieldMessage, Value: message},
	)
}

func TestValidateAcceptsEveryFormType(t *testing.T) {
	for _, ft := range models.FormTypes {
		t.Run(string(ft), func(t *testing.T) {
			s := submission(string(ft), "Jane Doe", "jane@example.com", "07911 123456", "Hello there")
			assert.Empty(t, Validate(s))
		})
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	s := submission("wedding", "A", "bad-email", "123", "hi")

	assert.Equal(t, []string{ErrFullName, ErrEmail, ErrPhone, ErrMessage}, Validate(s))
}

func TestValidateEmptySubmission(t *testing.T) {
	errs := Validate(models.NewSubmission())

	assert.Equal(t, []string{ErrFullName, ErrEmail, ErrPhone, ErrMessage, ErrFormType}, errs)
}

func TestValidateSingleRules(t *testing.T) {
	tests := []struct {
		name string
		sub  *models.Submission
		want []string
	}{
		{
			name: "name of whitespace",
			sub:  submission("contact", "   J  ", "jane@example.com", "07911 123456", "Hello there"),
			want: []string{ErrFullName},
		},
		{
			name: "two character name",
			sub:  submission("contact", "Jo", "jane@example.com", "07911 123456", "Hello there"),
		},
		{
			name: "email padded with spaces",
			sub:  submission("contact", "Jane", "  jane@example.com  ", "07911 123456", "Hello there"),
		},
		{
			name: "non ascii email",
			sub:  submission("contact", "Jane", "jané@example.com", "07911 123456", "Hello there"),
			want: []string{ErrEmail},
		},
		{
			name: "international phone",
			sub:  submission("contact", "Jane", "jane@example.com", "+44 (0)1789 123 456", "Hello there"),
		},
		{
			name: "phone with letters",
			sub:  submission("contact", "Jane", "jane@example.com", "call me maybe", "Hello there"),
			want: []string{ErrPhone},
		},
		{
			name: "message padded to five",
			sub:  submission("contact", "Jane", "jane@example.com", "07911 123456", "  hey  "),
			want: []string{ErrMessage},
		},
		{
			name: "unknown form type",
			sub:  submission("spa", "Jane", "jane@example.com", "07911 123456", "Hello there"),
			want: []string{ErrFormType},
		},
		{
			name: "form type is case sensitive",
			sub:  submission("Contact", "Jane", "jane@example.com", "07911 123456", "Hello there"),
			want: []string{ErrFormType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.sub))
		})
	}
}
