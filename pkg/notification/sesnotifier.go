package notification

import (
	"context"
	"fmt"
	"log/slog"
	netmail "net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type SESConfig struct {
	Region   string
	From     string
	FromName string
}

// SESClient is the subset of the SES v2 API the notifier uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier delivers email through Amazon SES
type SESNotifier struct {
	SESConfig SESConfig
	client    SESClient
}

// NewSESNotifier loads AWS credentials from the default chain
func NewSESNotifier(ctx context.Context, config SESConfig) (*SESNotifier, error) {
	if config.From == "" {
		return nil, fmt.Errorf("ses from address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		slog.Error("Failed to load AWS config", "err", err)
		return nil, err
	}
	return NewSESNotifierWithClient(config, sesv2.NewFromConfig(awsCfg)), nil
}

func NewSESNotifierWithClient(config SESConfig, client SESClient) *SESNotifier {
	return &SESNotifier{SESConfig: config, client: client}
}

func (s *SESNotifier) Send(ctx context.Context, noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	rendered, err := Render(noticeTemplate, notification)
	if err != nil {
		slog.Error("Failed to render notice", "type", noticeType, "err", err)
		return err
	}

	body := &types.Body{}
	if rendered.Text != "" {
		body.Text = &types.Content{Data: aws.String(rendered.Text), Charset: aws.String("UTF-8")}
	}
	if rendered.Html != "" {
		body.Html = &types.Content{Data: aws.String(rendered.Html), Charset: aws.String("UTF-8")}
	}

	from := (&netmail.Address{Name: s.SESConfig.FromName, Address: s.SESConfig.From}).String()
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{notification.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(rendered.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		slog.Error("Failed to send email via SES", "type", noticeType, "err", err)
		return err
	}

	slog.Info("Email sent successfully", "type", noticeType, "to", notification.To, "region", s.SESConfig.Region, "messageId", aws.ToString(out.MessageId))
	return nil
}
