package config

import (
	"github.com/tendant/grievance-portal/pkg/notification"
)

// EmailConfig holds mail relay configuration
// Defaults match the Gmail relay the portal was first deployed against.
type EmailConfig struct {
	Provider string `env:"EMAIL_PROVIDER" env-default:"smtp"` // smtp or ses
	Host     string `env:"EMAIL_HOST" env-default:"smtp.gmail.com"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"465"`
	Username string `env:"EMAIL"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM"`
	FromName string `env:"EMAIL_FROM_NAME" env-default:"Grievance Portal"`
	// TLS is one of "ssl" (implicit TLS), "starttls" or "none"
	TLS    string `env:"EMAIL_TLS" env-default:"ssl"`
	Debug  bool   `env:"EMAIL_DEBUG" env-default:"false"`
	Region string `env:"EMAIL_SES_REGION" env-default:"us-east-1"`
}

// FromAddress returns the envelope sender, falling back to the account name
func (e EmailConfig) FromAddress() string {
	if e.From != "" {
		return e.From
	}
	return e.Username
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.FromAddress(),
		FromName: e.FromName,
		TLS:      notification.TLSMode(e.TLS),
		Debug:    e.Debug,
	}
}

// ToSESConfig converts the config to a notification.SESConfig
func (e EmailConfig) ToSESConfig() notification.SESConfig {
	return notification.SESConfig{
		Region:   e.Region,
		From:     e.FromAddress(),
		FromName: e.FromName,
	}
}
