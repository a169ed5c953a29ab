// Package validator checks a submission before anything is rendered or sent.
package validator

import (
	"strings"

	"enquiry-mailer/models"
	"enquiry-mailer/utils"
)

const (
	ErrFullName = "Full Name is required (at least 2 characters)."
	ErrEmail    = "A valid email address is required."
	ErrPhone    = "A valid phone number is required."
	ErrMessage  = "Message is required (at least 5 characters)."
	ErrFormType = "Invalid form type."
)

const (
	minNameLength    = 2
	minMessageLength = 5
)

// Validate returns every rule s breaks. An empty result means s is
// accepted.
func Validate(s *models.Submission) []string {
	var errs []string

	if utils.RuneLen(strings.TrimSpace(s.FullName())) < minNameLength {
		errs = append(errs, ErrFullName)
	}
	if !utils.ValidateEmail(strings.TrimSpace(s.Get(models.FieldEmail))) {
		errs = append(errs, ErrEmail)
	}
	if !utils.ValidatePhone(strings.TrimSpace(s.Phone())) {
		errs = append(errs, ErrPhone)
	}
	if utils.RuneLen(strings.TrimSpace(s.Message())) < minMessageLength {
		errs = append(errs, ErrMessage)
	}
	if !s.FormType().Valid() {
		errs = append(errs, ErrFormType)
	}

	return errs
}
