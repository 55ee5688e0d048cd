package notification

import (
	"context"
	"embed"
	"log/slog"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithSES adds an email notifier backed by Amazon SES
func WithSES(ctx context.Context, config SESConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		sesNotifier, err := NewSESNotifier(ctx, config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, sesNotifier)
		return nil
	}
}

// WithNotifier registers an already constructed notifier
func WithNotifier(system NotificationSystem, notifier Notifier) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(system, notifier)
		return nil
	}
}

// WithPartnerVerificationTemplate registers the partner verification template
func WithPartnerVerificationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(PartnerVerificationNotice, EmailSystem, NoticeTemplate{
			Subject: "Please verify to receive grievances",
			Text:    loadTemplate("templates/email/partner_verification.txt"),
			Html:    loadTemplate("templates/email/partner_verification.html"),
		})
	}
}

// WithGrievanceTemplate registers the grievance template. Grievances are text only.
func WithGrievanceTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(GrievanceNotice, EmailSystem, NoticeTemplate{
			Subject: "New Grievance Submitted",
			Text:    loadTemplate("templates/email/grievance.txt"),
		})
	}
}

// WithDefaultTemplates registers all default notification templates
func WithDefaultTemplates() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		options := []NotificationManagerOption{
			WithPartnerVerificationTemplate(),
			WithGrievanceTemplate(),
		}

		for _, opt := range options {
			if err := opt(nm); err != nil {
				return err
			}
		}

		return nil
	}
}

// NewNotificationManagerWithOptions creates a new notification manager with the provided options
func NewNotificationManagerWithOptions(baseUrl string, opts ...NotificationManagerOption) (*NotificationManager, error) {
	notificationManager := NewNotificationManager(baseUrl)

	// Apply all options
	for _, opt := range opts {
		if err := opt(notificationManager); err != nil {
			return nil, err
		}
	}

	return notificationManager, nil
}
