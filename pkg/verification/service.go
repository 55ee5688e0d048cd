package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	apperrors "github.com/tendant/grievance-portal/pkg/errors"
	"github.com/tendant/grievance-portal/pkg/metrics"
	"github.com/tendant/grievance-portal/pkg/notification"
	"github.com/tendant/grievance-portal/pkg/partner"
)

const (
	msgVerificationSendFailed = "Failed to send verification email."
	msgVerifyFailed           = "Failed to verify partner."
)

// Service runs the verification flow on top of the ledger
type Service struct {
	ledger              *Ledger
	partners            partner.PartnerRepository
	notificationManager *notification.NotificationManager
	frontendURL         string
	metrics             *metrics.Metrics
}

// ServiceOption defines configuration options
type ServiceOption func(*Service)

// WithMetrics records issue and consume outcomes
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(
	ledger *Ledger,
	partners partner.PartnerRepository,
	notificationManager *notification.NotificationManager,
	frontendURL string,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		ledger:              ledger,
		partners:            partners,
		notificationManager: notificationManager,
		frontendURL:         strings.TrimRight(frontendURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerificationLink builds <frontend>/verify?token=..&email=..
func (s *Service) VerificationLink(token Token) string {
	q := url.Values{}
	q.Set("token", token.Value)
	q.Set("email", token.Email)
	return fmt.Sprintf("%s/verify?%s", s.frontendURL, q.Encode())
}

// RequestVerification issues a token for partnerEmail and mails the link.
// If the mail cannot be sent the token is revoked so no link stays valid.
func (s *Service) RequestVerification(ctx context.Context, partnerEmail string) error {
	token, err := s.ledger.Issue(ctx, partnerEmail)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			return apperrors.InvalidInput("partnerEmail", "must be a valid email address")
		}
		slog.Error("Failed to issue verification token", "email", partnerEmail, "err", err)
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, msgVerificationSendFailed)
	}
	s.metrics.TokenIssued()

	err = s.notificationManager.Send(ctx, notification.PartnerVerificationNotice, notification.NotificationData{
		To: token.Email,
		Data: map[string]string{
			"VerificationLink": s.VerificationLink(token),
			"ExpiresIn":        s.ledger.TTL().String(),
		},
	})
	if err != nil {
		slog.Error("Failed to send verification email", "email", token.Email, "err", err)
		s.metrics.VerificationEmail(metrics.ResultFailed)
		if rerr := s.ledger.Revoke(ctx, token.Value); rerr != nil {
			slog.Error("Failed to revoke undelivered verification token", "email", token.Email, "err", rerr)
		}
		return apperrors.DispatchFailed(err, msgVerificationSendFailed)
	}

	s.metrics.VerificationEmail(metrics.ResultSuccess)
	slog.Info("Verification email sent", "email", token.Email)
	return nil
}

// Verify consumes the token and records the partner as verified
func (s *Service) Verify(ctx context.Context, value, email string) (partner.VerifiedPartner, error) {
	token, err := s.ledger.Consume(ctx, value, email)
	if err != nil {
		if IsRejected(err) {
			s.metrics.TokenConsumed(metrics.ResultInvalid)
			return partner.VerifiedPartner{}, apperrors.TokenInvalid(err)
		}
		slog.Error("Failed to consume verification token", "email", email, "err", err)
		s.metrics.TokenConsumed(metrics.ResultFailed)
		return partner.VerifiedPartner{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, msgVerifyFailed)
	}

	p, err := s.partners.MarkVerified(ctx, token.Email)
	if err != nil {
		// The token is already gone; the partner has to request a new link.
		slog.Error("Failed to record verified partner", "email", token.Email, "err", err)
		s.metrics.TokenConsumed(metrics.ResultFailed)
		return partner.VerifiedPartner{}, apperrors.StoreUnavailable(err)
	}

	s.metrics.TokenConsumed(metrics.ResultSuccess)
	slog.Info("Partner verified", "email", p.Email)
	return p, nil
}

// SweepExpired drops expired tokens and records how many were removed
func (s *Service) SweepExpired(ctx context.Context) error {
	n, err := s.ledger.SweepExpired(ctx)
	if err != nil {
		slog.Error("Failed to sweep expired verification tokens", "err", err)
		return err
	}
	s.metrics.TokensSwept(n)
	return nil
}
