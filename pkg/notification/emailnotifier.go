package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
)

// TLSMode selects how the SMTP connection is secured
type TLSMode string

const (
	TLSImplicit TLSMode = "ssl"      // TLS from the first byte, usually port 465
	TLSStartTLS TLSMode = "starttls" // plain connection upgraded with STARTTLS, usually port 587
	TLSNone     TLSMode = "none"
)

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      TLSMode
	Username string
	Password string
	From     string
	FromName string
	Debug    bool
}

type EmailNotifier struct {
	SMTPConfig SMTPConfig
	client     *mail.Client
	// The client holds one connection at a time
	mu sync.Mutex
}

func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if config.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		slog.Info("Adding authentication", "user", config.Username)
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	tlsConfig := &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}
	switch config.TLS {
	case TLSImplicit, "":
		slog.Info("Using implicit TLS")
		opts = append(opts, mail.WithSSL(), mail.WithTLSConfig(tlsConfig))
	case TLSStartTLS:
		slog.Info("Using TLS Mandatory policy")
		opts = append(opts, mail.WithTLSConfig(tlsConfig), mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSNone:
		slog.Info("Using NoTLS policy")
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("unknown smtp tls mode: %q", config.TLS)
	}

	if config.Debug {
		opts = append(opts, mail.WithDebugLog())
	}

	slog.Info("Creating mail client", "Host", config.Host, "Port", config.Port, "tls", config.TLS)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &EmailNotifier{SMTPConfig: config, client: client}, nil
}

func (e *EmailNotifier) Send(ctx context.Context, noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	rendered, err := Render(noticeTemplate, notification)
	if err != nil {
		slog.Error("Failed to render notice", "type", noticeType, "err", err)
		return err
	}

	msg, err := e.buildMessage(notification.To, rendered)
	if err != nil {
		return err
	}

	e.mu.Lock()
	err = e.client.DialAndSendWithContext(ctx, msg)
	e.mu.Unlock()
	if err != nil {
		slog.Error("Failed to send email", "type", noticeType, "err", err)
		return err
	}

	slog.Info("Email sent successfully", "type", noticeType, "to", notification.To, "host", e.SMTPConfig.Host, "port", e.SMTPConfig.Port)
	return nil
}

func (e *EmailNotifier) buildMessage(to string, rendered RenderedNotice) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if e.SMTPConfig.FromName != "" {
		if err := msg.FromFormat(e.SMTPConfig.FromName, e.SMTPConfig.From); err != nil {
			slog.Error("Failed to set from address", "err", err)
			return nil, err
		}
	} else if err := msg.From(e.SMTPConfig.From); err != nil {
		slog.Error("Failed to set from address", "err", err)
		return nil, err
	}
	if err := msg.To(to); err != nil {
		slog.Error("Failed to set to address", "err", err)
		return nil, err
	}
	msg.Subject(rendered.Subject)

	// Text first, HTML as alternative
	switch {
	case rendered.Text != "" && rendered.Html != "":
		msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, rendered.Html)
	case rendered.Html != "":
		msg.SetBodyString(mail.TypeTextHTML, rendered.Html)
	default:
		msg.SetBodyString(mail.TypeTextPlain, rendered.Text)
	}
	return msg, nil
}

// Ping dials the relay and authenticates without sending anything
func (e *EmailNotifier) Ping(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.DialWithContext(ctx); err != nil {
		return err
	}
	return e.client.Close()
}
