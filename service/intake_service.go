package service

import (
	"context"
	"fmt"
	"time"

	"enquiry-mailer/metrics"
	"enquiry-mailer/models"
	"enquiry-mailer/utils"
	"enquiry-mailer/validator"

	"go.uber.org/zap"
)

// Gateway sends one envelope and reports whether the transport accepted it.
type Gateway interface {
	Send(ctx context.Context, env *models.DeliveryEnvelope) error
}

type NoticeRenderer interface {
	RenderOperatorNotice(formType models.FormType, s *models.Submission) (models.RenderedNotice, error)
	RenderConfirmationNotice(formType models.FormType, s *models.Submission) (models.RenderedNotice, error)
}

// State is the terminal state of one submission.
type State string

const (
	StateRejected  State = "rejected"
	StateFailed    State = "failed"
	StateDelivered State = "delivered"
)

// ConfirmationFailurePolicy decides what a failed confirmation send means
// once the operator notice has already gone out.
type ConfirmationFailurePolicy string

const (
	// ReportFailure fails the whole submission. The operator notice is not
	// recalled.
	ReportFailure ConfirmationFailurePolicy = "report-failure"
	// ReportDelivered treats the operator notice alone as success.
	ReportDelivered ConfirmationFailurePolicy = "report-delivered"
)

func ParseConfirmationFailurePolicy(s string) (ConfirmationFailurePolicy, error) {
	switch p := ConfirmationFailurePolicy(s); p {
	case ReportFailure, ReportDelivered:
		return p, nil
	case "":
		return ReportFailure, nil
	default:
		return "", fmt.Errorf("unknown confirmation failure policy %q", s)
	}
}

// Outcome is the result of Submit. Err carries the internal cause of a
// failure and must not be shown to the submitter.
type Outcome struct {
	State            State
	Errors           []string
	OperatorNotified bool
	ConfirmationSent bool
	Err              error
}

type Options struct {
	// From is the formatted sender of both notices.
	From          string
	OperatorEmail string
	Policy        ConfirmationFailurePolicy
	SendTimeout   time.Duration
}

// IntakeService drives one submission through validation, rendering and
// the two deliveries. It keeps no per-request state.
type IntakeService struct {
	renderer NoticeRenderer
	gateway  Gateway
	opts     Options
	logger   *zap.Logger
}

func NewIntakeService(renderer NoticeRenderer, gateway Gateway, opts Options, logger *zap.Logger) *IntakeService {
	if opts.Policy == "" {
		opts.Policy = ReportFailure
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &IntakeService{
		renderer: renderer,
		gateway:  gateway,
		opts:     opts,
		logger:   logger.Named("intake"),
	}
}

// Submit runs the full pipeline for s. The operator notice is always sent
// first and the confirmation only after it succeeded. Panics below this
// point are recovered and reported as a failed submission.
func (s *IntakeService) Submit(ctx context.Context, sub *models.Submission) (out Outcome) {
	formType := sub.FormType()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("unexpected error while processing submission",
				zap.String("form_type", string(formType)),
				zap.Any("panic", rec))
			out = Outcome{State: StateFailed, OperatorNotified: out.OperatorNotified, Err: fmt.Errorf("unexpected error: %v", rec)}
		}
		metrics.RecordSubmission(metricFormType(formType), string(out.State))
	}()

	if errs := validator.Validate(sub); len(errs) > 0 {
		s.logger.Info("submission rejected",
			zap.String("form_type", string(formType)),
			zap.Strings("errors", errs))
		return Outcome{State: StateRejected, Errors: errs}
	}

	submitter := sub.Email()
	log := s.logger.With(
		zap.String("form_type", string(formType)),
		zap.String("submitter", utils.MaskEmail(submitter)))

	notice, err := s.renderer.RenderOperatorNotice(formType, sub)
	if err != nil {
		log.Error("failed to render operator notice", zap.Error(err))
		return Outcome{State: StateFailed, Err: fmt.Errorf("operator notice: %w", err)}
	}
	operatorEnv := models.NewEnvelope(s.opts.From, s.opts.OperatorEmail, notice)
	operatorEnv.ReplyTo = submitter

	if err := s.send(ctx, operatorEnv); err != nil {
		log.Error("failed to send operator notice", zap.Error(err))
		return Outcome{State: StateFailed, Err: fmt.Errorf("operator notice: %w", err)}
	}
	out.OperatorNotified = true

	notice, err = s.renderer.RenderConfirmationNotice(formType, sub)
	if err == nil {
		err = s.send(ctx, models.NewEnvelope(s.opts.From, submitter, notice))
	}
	if err != nil {
		return s.confirmationFailed(log, err)
	}

	log.Info("submission delivered")
	return Outcome{State: StateDelivered, OperatorNotified: true, ConfirmationSent: true}
}

// confirmationFailed applies the configured policy after the operator
// notice went out but the confirmation did not.
func (s *IntakeService) confirmationFailed(log *zap.Logger, err error) Outcome {
	err = fmt.Errorf("confirmation notice: %w", err)
	if s.opts.Policy == ReportDelivered {
		log.Warn("confirmation notice failed, operator already notified", zap.Error(err))
		return Outcome{State: StateDelivered, OperatorNotified: true, Err: err}
	}
	log.Error("confirmation notice failed, reporting submission as failed", zap.Error(err))
	return Outcome{State: StateFailed, OperatorNotified: true, Err: err}
}

func (s *IntakeService) send(ctx context.Context, env *models.DeliveryEnvelope) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	return s.gateway.Send(sendCtx, env)
}

func metricFormType(f models.FormType) string {
	if f.Valid() {
		return string(f)
	}
	return "unknown"
}
