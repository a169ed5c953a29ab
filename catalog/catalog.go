// Package catalog maps submission field keys to the labels shown in the
// operator notice.
package catalog

import (
	"strings"
	"unicode"

	"enquiry-mailer/models"
)

// Row is one line of the operator notice detail table.
type Row struct {
	Label string
	Value string
}

var labels = map[string]string{
	"fullName":           "Full Name",
	"partnerName":        "Partner's Name",
	"email":              "Email Address",
	"phone":              "Phone Number",
	"subject":            "Subject",
	"weddingDate":        "Wedding Date",
	"guestCount":         "Guest Count",
	"weddingPackage":     "Package Interest",
	"referralSource":     "How They Found Us",
	"checkIn":            "Check-In Date",
	"checkOut":           "Check-Out Date",
	"roomType":           "Room Type",
	"guests":             "Guests",
	"specialRequests":    "Special Requests",
	"eventType":          "Event Type",
	"delegates":          "No. of Delegates",
	"eventDate":          "Preferred Date",
	"duration":           "Duration",
	"eventPackage":       "Package Interest",
	"company":            "Company / Organisation",
	"facilitiesRequired": "Facilities Required",

	// dining reservations
	"venue":               "Venue",
	"reservationDate":     "Reservation Date",
	"reservationTime":     "Reservation Time",
	"occasion":            "Occasion",
	"dietaryRequirements": "Dietary Requirements",
}

// Control fields never listed in the detail table.
var skipped = map[string]struct{}{
	models.FieldMessage:  {},
	models.FieldFormType: {},
	models.FieldConsent:  {},
}

func IsSkipped(key string) bool {
	_, ok := skipped[key]
	return ok
}

// Label returns the display label for key, deriving one when the key is
// not catalogued.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return DeriveLabel(key)
}

// DeriveLabel turns a camelCase key into words: a space goes before every
// uppercase letter after the first character and the first character is
// upper-cased ("weddingPackage" -> "Wedding Package").
func DeriveLabel(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Rows lists the displayable fields of s in submission order. Skipped
// control fields and empty values are left out.
func Rows(s *models.Submission) []Row {
	rows := make([]Row, 0, s.Len())
	for key, value := range s.Fields() {
		if IsSkipped(key) || value == "" {
			continue
		}
		rows = append(rows, Row{Label: Label(key), Value: value})
	}
	return rows
}
