package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"enquiry-mailer/catalog"
	"enquiry-mailer/config"
	"enquiry-mailer/models"
	"enquiry-mailer/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	operatorTemplate     = "operator.html"
	confirmationTemplate = "confirmation.html"

	dateLayout = "Monday, 2 January 2006"
	timeLayout = "15:04"

	defaultGuestName = "Guest"
)

// Renderer turns an accepted submission into the two notices sent for it.
// It holds only read-only state and is safe for concurrent use.
type Renderer struct {
	branding config.Branding
	now      func() time.Time
	location *time.Location
	tmpl     *template.Template
}

type RendererOption func(*Renderer)

// WithClock replaces time.Now as the source of the submission timestamp.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// WithLocation sets the time zone the timestamp is printed in.
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) { r.location = loc }
}

func NewRenderer(branding config.Branding, opts ...RendererOption) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := &Renderer{
		branding: branding,
		now:      time.Now,
		location: time.Local,
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type operatorData struct {
	Branding      config.Branding
	Label         string
	BadgeColor    template.CSS
	SubmittedDate string
	SubmittedTime string
	Rows          []catalog.Row
	Message       template.HTML
}

type confirmationData struct {
	Branding config.Branding
	Name     string
	Greeting string
	Promise  string
}

// RenderOperatorNotice builds the notice sent to the hotel mailbox.
func (r *Renderer) RenderOperatorNotice(formType models.FormType, s *models.Submission) (models.RenderedNotice, error) {
	profile := ProfileFor(formType, r.branding)
	submitted := r.now().In(r.location)

	data := operatorData{
		Branding:      r.branding,
		Label:         profile.Label,
		BadgeColor:    template.CSS(profile.BadgeColor),
		SubmittedDate: submitted.Format(dateLayout),
		SubmittedTime: submitted.Format(timeLayout),
		Rows:          catalog.Rows(s),
		Message:       messageHTML(s.Message()),
	}

	body, err := r.execute(operatorTemplate, data)
	if err != nil {
		return models.RenderedNotice{}, err
	}
	return models.RenderedNotice{Subject: profile.OperatorSubject, HTMLBody: body}, nil
}

// RenderConfirmationNotice builds the acknowledgement sent to the submitter.
func (r *Renderer) RenderConfirmationNotice(formType models.FormType, s *models.Submission) (models.RenderedNotice, error) {
	profile := ProfileFor(formType, r.branding)

	name := s.FullName()
	if name == "" {
		name = defaultGuestName
	}

	data := confirmationData{
		Branding: r.branding,
		Name:     name,
		Greeting: profile.Greeting,
		Promise:  profile.Promise,
	}

	body, err := r.execute(confirmationTemplate, data)
	if err != nil {
		return models.RenderedNotice{}, err
	}
	return models.RenderedNotice{Subject: profile.ConfirmationSubject, HTMLBody: body}, nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return body.String(), nil
}

// messageHTML escapes the free-text message and keeps its line breaks.
func messageHTML(message string) template.HTML {
	if message == "" {
		return ""
	}
	message = strings.ReplaceAll(message, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(utils.EscapeHTML(message), "\n", "<br>"))
}
