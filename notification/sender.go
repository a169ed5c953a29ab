package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"enquiry-mailer/config"
	"enquiry-mailer/metrics"
	"enquiry-mailer/models"
	"enquiry-mailer/utils"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

// Transport hands a finished message to a mail server.
type Transport interface {
	Name() string
	Deliver(e *email.Email) error
	Close() error
}

// DeliveryError reports a message the transport did not accept.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send email to %s: %v", utils.MaskEmail(e.Recipient), e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Sender is the delivery gateway: one Send call is one attempt at one
// message, with no retry.
type Sender struct {
	transport Transport
	logger    *zap.Logger
}

// NewSender picks the transport described by cfg.
func NewSender(cfg *config.Config, logger *zap.Logger) (*Sender, error) {
	transport, err := newTransport(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewSenderWithTransport(transport, logger), nil
}

func NewSenderWithTransport(transport Transport, logger *zap.Logger) *Sender {
	return &Sender{
		transport: transport,
		logger:    logger.Named("mail"),
	}
}

func newTransport(cfg *config.Config, logger *zap.Logger) (Transport, error) {
	if !cfg.SMTPEnabled() {
		logger.Warn("SMTP disabled, mail will be logged instead of sent")
		return &logTransport{logger: logger.Named("mail")}, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	var auth smtp.Auth
	if cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	}
	tlsConfig := &tls.Config{ServerName: cfg.SMTP.Host}

	logger.Info("initializing mail transport",
		zap.String("addr", addr),
		zap.Bool("secure", cfg.SMTP.Secure),
		zap.Int("pool_size", cfg.SMTP.PoolSize),
		zap.String("user", cfg.SMTP.Username))

	if cfg.SMTP.PoolSize > 0 {
		if cfg.SMTP.Secure {
			// email.Pool only speaks STARTTLS
			logger.Warn("smtp.pool_size ignored with implicit TLS")
		} else {
			pool, err := email.NewPool(addr, cfg.SMTP.PoolSize, auth, tlsConfig)
			if err != nil {
				return nil, fmt.Errorf("failed to create SMTP pool: %w", err)
			}
			return &poolTransport{pool: pool, timeout: cfg.SMTP.Timeout}, nil
		}
	}

	return &smtpTransport{addr: addr, auth: auth, secure: cfg.SMTP.Secure, tlsConfig: tlsConfig}, nil
}

// Send delivers env synchronously. A context that is already done fails
// the send before any connection is made.
func (s *Sender) Send(ctx context.Context, env *models.DeliveryEnvelope) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Recipient: env.To, Err: err}
	}

	e := email.NewEmail()
	e.From = env.From
	e.To = []string{env.To}
	if env.ReplyTo != "" {
		e.ReplyTo = []string{env.ReplyTo}
	}
	e.Subject = env.Subject
	e.HTML = []byte(env.HTMLBody)

	name := s.transport.Name()
	start := time.Now()
	err := s.transport.Deliver(e)
	metrics.MailSendDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailSendFailure.WithLabelValues(name).Inc()
		return &DeliveryError{Recipient: env.To, Err: err}
	}

	metrics.MailSendSuccess.WithLabelValues(name).Inc()
	s.logger.Debug("mail sent",
		zap.String("transport", name),
		zap.String("to", utils.MaskEmail(env.To)),
		zap.String("subject", env.Subject))
	return nil
}

func (s *Sender) Close() error {
	return s.transport.Close()
}

type smtpTransport struct {
	addr      string
	auth      smtp.Auth
	secure    bool
	tlsConfig *tls.Config
}

func (t *smtpTransport) Name() string { return "smtp" }

func (t *smtpTransport) Deliver(e *email.Email) error {
	if t.secure {
		return e.SendWithTLS(t.addr, t.auth, t.tlsConfig)
	}
	return e.Send(t.addr, t.auth)
}

func (t *smtpTransport) Close() error { return nil }

type poolTransport struct {
	pool    *email.Pool
	timeout time.Duration
}

func (t *poolTransport) Name() string { return "smtp-pool" }

func (t *poolTransport) Deliver(e *email.Email) error {
	return t.pool.Send(e, t.timeout)
}

func (t *poolTransport) Close() error {
	t.pool.Close()
	return nil
}

// logTransport writes messages to the log instead of sending them.
type logTransport struct {
	logger *zap.Logger
}

func (t *logTransport) Name() string { return "log" }

func (t *logTransport) Deliver(e *email.Email) error {
	to, replyTo := "", ""
	if len(e.To) > 0 {
		to = e.To[0]
	}
	if len(e.ReplyTo) > 0 {
		replyTo = e.ReplyTo[0]
	}
	t.logger.Info("[EMAIL] would send",
		zap.String("from", e.From),
		zap.String("to", utils.MaskEmail(to)),
		zap.String("reply_to", utils.MaskEmail(replyTo)),
		zap.String("subject", e.Subject),
		zap.Int("html_bytes", len(e.HTML)))
	return nil
}

func (t *logTransport) Close() error { return nil }
