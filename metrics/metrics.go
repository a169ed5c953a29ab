// Package metrics holds the Prometheus collectors for the intake pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts finished submissions by form type and final
	// state (rejected, failed, delivered).
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enquiry_submissions_total",
		Help: "Total number of enquiry submissions by outcome",
	}, []string{"form_type", "outcome"})

	MailSendSuccess = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enquiry_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"transport"})

	MailSendFailure = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enquiry_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"transport"})

	MailSendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "enquiry_mail_send_duration_seconds",
		Help:    "Time spent handing one message to the mail transport",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"transport"})
)

func RecordSubmission(formType, outcome string) {
	SubmissionsTotal.WithLabelValues(formType, outcome).Inc()
}
