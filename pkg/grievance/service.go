package grievance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/tendant/grievance-portal/pkg/errors"
	"github.com/tendant/grievance-portal/pkg/identity"
	"github.com/tendant/grievance-portal/pkg/metrics"
	"github.com/tendant/grievance-portal/pkg/notification"
	"github.com/tendant/grievance-portal/pkg/partner"
)

const (
	MaxGrievanceLength  = 10000
	MaxSenderNameLength = 100
	MaxAngyLevelLength  = 32

	msgSendFailed = "Failed to send grievance email."
)

// Submission is one grievance addressed to a partner
type Submission struct {
	PartnerEmail string `json:"partnerEmail" validate:"required,email"`
	Grievance    string `json:"grievance" validate:"required,max=10000"`
	SenderName   string `json:"senderName" validate:"max=100"`
	AngyLevel    string `json:"angyLevel" validate:"max=32"`
}

type Service struct {
	partners            partner.PartnerRepository
	notificationManager *notification.NotificationManager
	metrics             *metrics.Metrics
	validate            *validator.Validate
}

// ServiceOption defines configuration options
type ServiceOption func(*Service)

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(partners partner.PartnerRepository, notificationManager *notification.NotificationManager, opts ...ServiceOption) *Service {
	validate := validator.New()
	// Report json field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Service{
		partners:            partners,
		notificationManager: notificationManager,
		validate:            validate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckVerified reports whether email has a verified partner record
func (s *Service) CheckVerified(ctx context.Context, email string) (bool, error) {
	ok, err := s.partners.IsVerified(ctx, email)
	if err != nil {
		slog.Error("Failed to check partner verification", "email", email, "err", err)
		return false, apperrors.StoreUnavailable(err)
	}
	return ok, nil
}

// Submit mails the grievance to a verified partner
func (s *Service) Submit(ctx context.Context, sender identity.Identity, sub Submission) error {
	sub = sub.normalized()
	if err := s.validateSubmission(sub); err != nil {
		return err
	}

	verified, err := s.CheckVerified(ctx, sub.PartnerEmail)
	if err != nil {
		s.metrics.Grievance(metrics.ResultFailed)
		return err
	}
	if !verified {
		slog.Warn("Grievance rejected, partner not verified", "sender", sender, "partnerEmail", sub.PartnerEmail)
		s.metrics.Grievance(metrics.ResultNotVerified)
		return apperrors.NotVerified(sub.PartnerEmail)
	}

	slog.Info("Sending grievance email", "sender", sender, "partnerEmail", sub.PartnerEmail)
	err = s.notificationManager.Send(ctx, notification.GrievanceNotice, notification.NotificationData{
		To: sub.PartnerEmail,
		Data: map[string]string{
			"Grievance":  sub.Grievance,
			"SenderName": sub.SenderName,
			"AngyLevel":  sub.AngyLevel,
		},
	})
	if err != nil {
		slog.Error("Error sending grievance email", "partnerEmail", sub.PartnerEmail, "err", err)
		s.metrics.Grievance(metrics.ResultFailed)
		return apperrors.DispatchFailed(err, msgSendFailed)
	}

	s.metrics.Grievance(metrics.ResultSuccess)
	slog.Info("Grievance email sent", "partnerEmail", sub.PartnerEmail)
	return nil
}

// normalized trims fields and keeps the annotations on a single line
func (sub Submission) normalized() Submission {
	sub.PartnerEmail = partner.NormalizeEmail(sub.PartnerEmail)
	sub.Grievance = strings.TrimSpace(sub.Grievance)
	sub.SenderName = singleLine(sub.SenderName)
	sub.AngyLevel = singleLine(sub.AngyLevel)
	return sub
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (s *Service) validateSubmission(sub Submission) error {
	err := s.validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.InvalidInput(fe.Field(), describe(fe))
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid request")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
