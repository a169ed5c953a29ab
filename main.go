package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"enquiry-mailer/api"
	"enquiry-mailer/config"
	"enquiry-mailer/models"
	"enquiry-mailer/notification"
	"enquiry-mailer/service"
	"enquiry-mailer/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "enquiry-mailer",
		Short:        "Enquiry intake and notification mailer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetEnv("CONFIG_PATH", ""), "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP intake endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	})
	root.AddCommand(newPreviewCommand(&configPath))

	return root
}

func runServe(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	policy, err := service.ParseConfirmationFailurePolicy(cfg.Intake.ConfirmationFailure)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("falling back to UTC for submission timestamps", zap.Error(err))
	}

	renderer, err := notification.NewRenderer(cfg.Branding, notification.WithLocation(loc))
	if err != nil {
		return err
	}

	sender, err := notification.NewSender(cfg, logger)
	if err != nil {
		return err
	}
	defer sender.Close()

	intake := service.NewIntakeService(renderer, sender, service.Options{
		From:          utils.FormatAddress(cfg.SMTP.FromName, cfg.SMTP.FromEmail),
		OperatorEmail: cfg.Intake.OperatorEmail,
		Policy:        policy,
		SendTimeout:   cfg.SMTP.Timeout,
	}, logger)

	logger.Info("configuration loaded",
		zap.String("environment", cfg.App.Env),
		zap.String("operator_email", utils.MaskEmail(cfg.Intake.OperatorEmail)),
		zap.String("confirmation_failure_policy", string(policy)))

	server := api.NewServer(cfg, intake, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited properly")
	return nil
}

// newPreviewCommand renders a notice for a JSON submission without
// sending anything.
func newPreviewCommand(configPath *string) *cobra.Command {
	var kind, form string

	cmd := &cobra.Command{
		Use:   "preview [submission.json]",
		Short: "Render the operator or confirmation notice for a submission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			sub, err := models.ParseSubmission(in)
			if err != nil {
				return err
			}

			loc, err := cfg.Location()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, using UTC\n", err)
			}

			renderer, err := notification.NewRenderer(cfg.Branding, notification.WithLocation(loc))
			if err != nil {
				return err
			}

			formType := sub.FormType()
			if form != "" {
				formType = models.FormType(form)
			}

			var notice models.RenderedNotice
			switch kind {
			case "operator":
				notice, err = renderer.RenderOperatorNotice(formType, sub)
			case "confirmation":
				notice, err = renderer.RenderConfirmationNotice(formType, sub)
			default:
				return fmt.Errorf("unknown notice kind %q (want operator or confirmation)", kind)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject: %s\n\n", notice.Subject)
			_, err = io.WriteString(out, notice.HTMLBody)
			return err
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "operator", "notice to render: operator or confirmation")
	cmd.Flags().StringVarP(&form, "form", "f", "", "form type to render as (defaults to the submission's formType)")
	return cmd
}
