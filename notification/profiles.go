package notification

import (
	"fmt"

	"enquiry-mailer/config"
	"enquiry-mailer/models"
)

// Profile is the wording and styling used for one form type.
type Profile struct {
	Label               string
	OperatorSubject     string
	ConfirmationSubject string
	BadgeColor          string
	Greeting            string
	Promise             string
}

const neutralBadgeColor = "#c2a45e"

// wording holds the per-type text. The %s verbs take the hotel name:
// operatorSubject gets Branding.SubjectName, confirmationSubject and
// greeting get Branding.Name.
type wording struct {
	label               string
	operatorSubject     string
	confirmationSubject string
	badgeColor          string
	greeting            string
	promise             string
}

var (
	weddingWording = wording{
		label:               "Wedding Enquiry",
		operatorSubject:     "💍 New Wedding Enquiry — %s",
		confirmationSubject: "Your Wedding Enquiry — %s",
		badgeColor:          "#b8860b",
		greeting:            "Thank you so much for your wedding enquiry. We're truly delighted that you're considering %s for your special day.",
		promise:             "One of our dedicated wedding coordinators will be in touch within 24 hours to begin crafting your perfect day.",
	}
	stayWording = wording{
		label:               "Stay / Booking Enquiry",
		operatorSubject:     "🏨 New Stay / Booking Enquiry — %s",
		confirmationSubject: "Your Booking Enquiry — %s",
		badgeColor:          "#2e7d32",
		greeting:            "Thank you for your booking enquiry. We look forward to welcoming you to %s.",
		promise:             "Our reservations team will confirm availability and get back to you within 2 hours.",
	}
	eventsWording = wording{
		label:               "Event Enquiry",
		operatorSubject:     "🎪 New Events Enquiry — %s",
		confirmationSubject: "Your Event Enquiry — %s",
		badgeColor:          "#1565c0",
		greeting:            "Thank you for your event enquiry. %s is delighted to help you plan your perfect event.",
		promise:             "Our events team will prepare a bespoke proposal and respond within 24 hours.",
	}
	contactWording = wording{
		label:               "General Enquiry",
		operatorSubject:     "✉️ New General Enquiry — %s",
		confirmationSubject: "Your Enquiry — %s",
		badgeColor:          "#6d4c41",
		greeting:            "Thank you for getting in touch with %s. We've received your message and appreciate you contacting us.",
		promise:             "A member of our team will respond to your enquiry within 24 hours.",
	}
	diningWording = wording{
		label:               "Dining Reservation",
		operatorSubject:     "🍽️ New Dining Reservation — %s",
		confirmationSubject: "Your Dining Reservation — %s",
		badgeColor:          "#8e24aa",
		greeting:            "Thank you for your dining reservation request at %s. We're looking forward to welcoming you.",
		promise:             "Our dining reservations team will confirm your table within 2 hours. Please check your email for confirmation.",
	}
)

func wordingFor(formType models.FormType) (wording, bool) {
	switch formType {
	case models.FormWedding:
		return weddingWording, true
	case models.FormStay:
		return stayWording, true
	case models.FormEvents:
		return eventsWording, true
	case models.FormContact:
		return contactWording, true
	case models.FormDining:
		return diningWording, true
	default:
		return contactWording, false
	}
}

// ProfileFor returns the profile of formType worded for the given hotel.
// Unknown form types get the contact wording with a neutral badge.
func ProfileFor(formType models.FormType, branding config.Branding) Profile {
	w, known := wordingFor(formType)

	p := Profile{
		Label:               w.label,
		OperatorSubject:     fmt.Sprintf(w.operatorSubject, branding.SubjectName),
		ConfirmationSubject: fmt.Sprintf(w.confirmationSubject, branding.Name),
		BadgeColor:          w.badgeColor,
		Greeting:            fmt.Sprintf(w.greeting, branding.Name),
		Promise:             w.promise,
	}
	if !known {
		p.BadgeColor = neutralBadgeColor
	}
	return p
}
