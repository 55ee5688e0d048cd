package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	pkgconfig "github.com/tendant/grievance-portal/pkg/config"
	"github.com/tendant/grievance-portal/pkg/notification"
)

// smtpcheck dials the configured relay and authenticates, optionally sending a test message.
func main() {
	to := flag.String("to", "", "Send a test message to this address after the check")
	timeout := flag.Duration("timeout", 30*time.Second, "Dial and authentication timeout")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	var cfg pkgconfig.EmailConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	notifier, err := notification.NewEmailNotifier(cfg.ToSMTPConfig())
	if err != nil {
		slog.Error("Invalid SMTP configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := notifier.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "SMTP connection error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Server %s:%d is ready to take our messages\n", cfg.Host, cfg.Port)

	if *to == "" {
		return
	}

	nm, err := notification.NewNotificationManagerWithOptions("", notification.WithNotifier(notification.EmailSystem, notifier))
	if err != nil {
		slog.Error("Failed to create notification manager", "error", err)
		os.Exit(1)
	}
	err = nm.RegisterNotification(notification.SMTPCheckNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Grievance Portal SMTP check",
		Text:    "This message was sent by smtpcheck from {{.Host}}.",
	})
	if err != nil {
		slog.Error("Failed to register template", "error", err)
		os.Exit(1)
	}

	err = nm.Send(ctx, notification.SMTPCheckNotice, notification.NotificationData{
		To:   *to,
		Data: map[string]string{"Host": cfg.Host},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to send test message: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Test message sent to %s\n", *to)
}
