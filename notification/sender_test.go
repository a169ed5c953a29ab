package notification

import (
	"context"
	"errors"
	"testing"

	"enquiry-mailer/config"
	"enquiry-mailer/metrics"
	"enquiry-mailer/models"

	"github.com/jordan-wright/email"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingTransport struct {
	err       error
	delivered []*email.Email
	closed    bool
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Deliver(e *email.Email) error {
	t.delivered = append(t.delivered, e)
	return t.err
}

func (t *recordingTransport) Close() error {
	t.closed = true
	return nil
}

func testEnvelope() *models.DeliveryEnvelope {
	return &models.DeliveryEnvelope{
		From:     `"Kings Court Hotel" <bookings@example.com>`,
		To:       "info@example.com",
		ReplyTo:  "jane@example.com",
		Subject:  "New enquiry",
		HTMLBody: "<p>hello</p>",
	}
}

func TestSenderBuildsMessage(t *testing.T) {
	transport := &recordingTransport{}
	sender := NewSenderWithTransport(transport, zaptest.NewLogger(t))

	require.NoError(t, sender.Send(context.Background(), testEnvelope()))

	require.Len(t, transport.delivered, 1)
	e := transport.delivered[0]
	assert.Equal(t, `"Kings Court Hotel" <bookings@example.com>`, e.From)
	assert.Equal(t, []string{"info@example.com"}, e.To)
	assert.Equal(t, []string{"jane@example.com"}, e.ReplyTo)
	assert.Equal(t, "New enquiry", e.Subject)
	assert.Equal(t, []byte("<p>hello</p>"), e.HTML)
}

func TestSenderOmitsEmptyReplyTo(t *testing.T) {
	transport := &recordingTransport{}
	sender := NewSenderWithTransport(transport, zaptest.NewLogger(t))

	env := testEnvelope()
	env.ReplyTo = ""
	require.NoError(t, sender.Send(context.Background(), env))

	assert.Empty(t, transport.delivered[0].ReplyTo)
}

func TestSenderWrapsTransportFailure(t *testing.T) {
	cause := errors.New("535 authentication failed")
	transport := &recordingTransport{err: cause}
	sender := NewSenderWithTransport(transport, zaptest.NewLogger(t))

	failures := testutil.ToFloat64(metrics.MailSendFailure.WithLabelValues("recording"))

	err := sender.Send(context.Background(), testEnvelope())
	require.Error(t, err)

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "info@example.com", deliveryErr.Recipient)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, transport.delivered, 1, "a failed send is not retried")
	assert.Equal(t, failures+1, testutil.ToFloat64(metrics.MailSendFailure.WithLabelValues("recording")))
}

func TestSenderCountsSuccess(t *testing.T) {
	sender := NewSenderWithTransport(&recordingTransport{}, zaptest.NewLogger(t))
	before := testutil.ToFloat64(metrics.MailSendSuccess.WithLabelValues("recording"))

	require.NoError(t, sender.Send(context.Background(), testEnvelope()))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MailSendSuccess.WithLabelValues("recording")))
}

func TestSenderCancelledContext(t *testing.T) {
	transport := &recordingTransport{}
	sender := NewSenderWithTransport(transport, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, testEnvelope())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, transport.delivered)
}

func TestSenderClose(t *testing.T) {
	transport := &recordingTransport{}
	sender := NewSenderWithTransport(transport, zaptest.NewLogger(t))

	require.NoError(t, sender.Close())
	assert.True(t, transport.closed)
}

func TestNewSenderTransportSelection(t *testing.T) {
	disabled := false

	tests := []struct {
		name      string
		configure func(cfg *config.Config)
		want      string
	}{
		{
			name:      "no host logs instead of sending",
			configure: func(cfg *config.Config) {},
			want:      "log",
		},
		{
			name: "explicitly disabled",
			configure: func(cfg *config.Config) {
				cfg.SMTP.Host = "smtp.example.com"
				cfg.SMTP.Enabled = &disabled
			},
			want: "log",
		},
		{
			name: "plain smtp",
			configure: func(cfg *config.Config) {
				cfg.SMTP.Host = "smtp.example.com"
				cfg.SMTP.Port = 587
				cfg.SMTP.Username = "user"
			},
			want: "smtp",
		},
		{
			name: "implicit tls ignores pool",
			configure: func(cfg *config.Config) {
				cfg.SMTP.Host = "smtp.example.com"
				cfg.SMTP.Port = 465
				cfg.SMTP.Secure = true
				cfg.SMTP.PoolSize = 4
			},
			want: "smtp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			tt.configure(cfg)

			sender, err := NewSender(cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, sender.transport.Name())
		})
	}
}

func TestSecureTransportFlag(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 465
	cfg.SMTP.Secure = true

	sender, err := NewSender(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	transport, ok := sender.transport.(*smtpTransport)
	require.True(t, ok)
	assert.True(t, transport.secure)
	assert.Equal(t, "smtp.example.com:465", transport.addr)
	assert.Nil(t, transport.auth, "no username means an unauthenticated relay")
	assert.Equal(t, "smtp.example.com", transport.tlsConfig.ServerName)
}

func TestLogTransportReportsSuccess(t *testing.T) {
	sender, err := NewSender(&config.Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, sender.Send(context.Background(), testEnvelope()))
}

func TestDeliveryErrorMasksRecipient(t *testing.T) {
	err := &DeliveryError{Recipient: "jane@example.com", Err: errors.New("boom")}
	assert.Equal(t, "failed to send email to j***e@example.com: boom", err.Error())
}
