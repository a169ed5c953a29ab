// Package api exposes the intake pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"enquiry-mailer/config"
	"enquiry-mailer/models"
	"enquiry-mailer/service"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	SendEmailPath = "/api/send-email"

	MsgDelivered        = "Your enquiry has been sent successfully. A confirmation email has been sent to your inbox."
	MsgDeliveryFailed   = "There was a problem sending your enquiry. Please try again or contact us directly."
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidBody      = "Request body must be a JSON object."
)

// Submitter runs one submission to completion.
type Submitter interface {
	Submit(ctx context.Context, sub *models.Submission) service.Outcome
}

type Server struct {
	router *gin.Engine
	config *config.Config
	intake Submitter
	logger *zap.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, intake Submitter, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
		cors.New(cors.Config{
			AllowAllOrigins:           true,
			AllowMethods:              []string{http.MethodPost, http.MethodOptions},
			AllowHeaders:              []string{"Content-Type"},
			MaxAge:                    12 * time.Hour,
			OptionsResponseStatusCode: http.StatusOK,
		}),
	)

	s := &Server{
		router: router,
		config: cfg,
		intake: intake,
		logger: logger.Named("api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST(SendEmailPath, s.sendEmail)
	s.router.OPTIONS(SendEmailPath, s.preflight)

	s.router.NoMethod(s.methodNotAllowed)
}

// Handler returns the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "enquiry-mailer",
		"environment": s.config.App.Env,
		"smtp":        s.config.SMTPEnabled(),
	})
}

func (s *Server) preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": MsgMethodNotAllowed})
}

func (s *Server) sendEmail(c *gin.Context) {
	// ShouldBindJSON stops after the first value and would accept trailing data.
	sub, err := models.ParseSubmission(c.Request.Body)
	if err != nil {
		s.logger.Info("rejected unreadable request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{MsgInvalidBody}})
		return
	}

	out := s.intake.Submit(c.Request.Context(), sub)
	switch out.State {
	case service.StateRejected:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": out.Errors})
	case service.StateDelivered:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": MsgDelivered})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": MsgDeliveryFailed})
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.ListenAddress(),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("server starting",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Env))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
