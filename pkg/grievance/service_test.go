package grievance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tendant/grievance-portal/pkg/errors"
	"github.com/tendant/grievance-portal/pkg/identity"
	"github.com/tendant/grievance-portal/pkg/metrics"
	"github.com/tendant/grievance-portal/pkg/notification"
	"github.com/tendant/grievance-portal/pkg/partner"
)

var alice = identity.Identity{Subject: "uid-alice", Email: "alice@example.com", Name: "Alice"}

type failingPartners struct {
	partner.PartnerRepository
	err error
}

func (f failingPartners) IsVerified(ctx context.Context, email string) (bool, error) {
	return false, f.err
}

func setupService(t *testing.T, partners partner.PartnerRepository) (*Service, *notification.MockNotifier) {
	mailer := &notification.MockNotifier{}
	nm, err := notification.NewNotificationManagerWithOptions("http://localhost:5173",
		notification.WithNotifier(notification.EmailSystem, mailer),
		notification.WithDefaultTemplates(),
	)
	require.NoError(t, err)

	return NewService(partners, nm, WithMetrics(metrics.New())), mailer
}

func verifiedPartners(t *testing.T, emails ...string) partner.PartnerRepository {
	repo := partner.NewMemoryPartnerRepository()
	for _, e := range emails {
		_, err := repo.MarkVerified(context.Background(), e)
		require.NoError(t, err)
	}
	return repo
}

func TestSubmit_UnverifiedPartner(t *testing.T) {
	svc, mailer := setupService(t, partner.NewMemoryPartnerRepository())

	err := svc.Submit(context.Background(), alice, Submission{
		PartnerEmail: "dave@example.com",
		Grievance:    "you ate my leftovers",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotVerified))
	assert.Equal(t, "Partner email not verified.", apperrors.PublicMessage(err, ""))
	assert.Equal(t, 0, mailer.Count())
}

func TestSubmit_VerifiedPartner(t *testing.T) {
	svc, mailer := setupService(t, verifiedPartners(t, "bob@example.com"))

	err := svc.Submit(context.Background(), alice, Submission{
		PartnerEmail: " Bob@Example.com ",
		Grievance:    "you left the dishes again",
	})
	require.NoError(t, err)

	sent, ok := mailer.Last()
	require.True(t, ok)
	assert.Equal(t, notification.GrievanceNotice, sent.Type)
	assert.Equal(t, "bob@example.com", sent.Notification.To)
	assert.Equal(t, "New Grievance Submitted", sent.Rendered.Subject)
	assert.Contains(t, sent.Rendered.Text, "you left the dishes again")
	assert.NotContains(t, sent.Rendered.Text, "From:")
	assert.Empty(t, sent.Rendered.Html)
}

func TestSubmit_Annotations(t *testing.T) {
	svc, mailer := setupService(t, verifiedPartners(t, "bob@example.com"))

	err := svc.Submit(context.Background(), alice, Submission{
		PartnerEmail: "bob@example.com",
		Grievance:    "cold feet",
		SenderName:   "  Alice\nSmith ",
		AngyLevel:    "7",
	})
	require.NoError(t, err)

	sent, ok := mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "Alice Smith", sent.Notification.Data["SenderName"])
	assert.Contains(t, sent.Rendered.Text, "From: Alice Smith")
	assert.Contains(t, sent.Rendered.Text, "Angy level: 7")
}

func TestSubmit_Validation(t *testing.T) {
	svc, mailer := setupService(t, verifiedPartners(t, "bob@example.com"))

	tests := []struct {
		name  string
		sub   Submission
		field string
	}{
		{"missing partner", Submission{Grievance: "x"}, "partnerEmail"},
		{"bad partner", Submission{PartnerEmail: "not-an-email", Grievance: "x"}, "partnerEmail"},
		{"missing grievance", Submission{PartnerEmail: "bob@example.com"}, "grievance"},
		{"whitespace grievance", Submission{PartnerEmail: "bob@example.com", Grievance: " \n\t  "}, "grievance"},
		{"grievance too long", Submission{PartnerEmail: "bob@example.com", Grievance: strings.Repeat("a", MaxGrievanceLength+1)}, "grievance"},
		{"sender name too long", Submission{PartnerEmail: "bob@example.com", Grievance: "x", SenderName: strings.Repeat("b", MaxSenderNameLength+1)}, "senderName"},
		{"angy level too long", Submission{PartnerEmail: "bob@example.com", Grievance: "x", AngyLevel: strings.Repeat("9", MaxAngyLevelLength+1)}, "angyLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), alice, tt.sub)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
			assert.Contains(t, apperrors.PublicMessage(err, ""), tt.field)
		})
	}
	assert.Equal(t, 0, mailer.Count())
}

func TestSubmit_MaxLengthAccepted(t *testing.T) {
	svc, mailer := setupService(t, verifiedPartners(t, "bob@example.com"))

	err := svc.Submit(context.Background(), alice, Submission{
		PartnerEmail: "bob@example.com",
		Grievance:    strings.Repeat("a", MaxGrievanceLength),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mailer.Count())
}

func TestSubmit_DispatchFailure(t *testing.T) {
	svc, mailer := setupService(t, verifiedPartners(t, "bob@example.com"))
	mailer.Err = errors.New("535 authentication failed")

	err := svc.Submit(context.Background(), alice, Submission{PartnerEmail: "bob@example.com", Grievance: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDispatchFailed))
	assert.Equal(t, "Failed to send grievance email.", apperrors.PublicMessage(err, ""))
}

func TestSubmit_StoreFailure(t *testing.T) {
	svc, mailer := setupService(t, failingPartners{err: errors.New("connection refused")})

	err := svc.Submit(context.Background(), alice, Submission{PartnerEmail: "bob@example.com", Grievance: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStoreUnavailable))
	assert.Equal(t, 0, mailer.Count())
}

func TestCheckVerified(t *testing.T) {
	svc, _ := setupService(t, verifiedPartners(t, "bob@example.com"))

	ok, err := svc.CheckVerified(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckVerified(context.Background(), "dave@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
