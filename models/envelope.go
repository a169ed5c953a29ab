package models

// RenderedNotice is the output of a template render.
type RenderedNotice struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// DeliveryEnvelope is the unit handed to the mail gateway.
type DeliveryEnvelope struct {
	From     string `json:"from"`
	To       string `json:"to"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

func NewEnvelope(from, to string, notice RenderedNotice) *DeliveryEnvelope {
	return &DeliveryEnvelope{
		From:     from,
		To:       to,
		Subject:  notice.Subject,
		HTMLBody: notice.HTMLBody,
	}
}
