package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/grievance-portal/pkg/grievance"
	"github.com/tendant/grievance-portal/pkg/identity"
	"github.com/tendant/grievance-portal/pkg/notification"
	"github.com/tendant/grievance-portal/pkg/partner"
)

type brokenPartners struct {
	partner.PartnerRepository
}

func (brokenPartners) IsVerified(ctx context.Context, email string) (bool, error) {
	return false, errors.New("connection refused")
}

// withIdentity stands in for identity.Authenticator
func withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := identity.NewContext(r.Context(), identity.Identity{Subject: "uid-alice", Email: "alice@example.com"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setupRouter(t *testing.T, partners partner.PartnerRepository, authenticated bool) (http.Handler, *notification.MockNotifier) {
	mailer := &notification.MockNotifier{}
	nm, err := notification.NewNotificationManagerWithOptions("http://localhost:5173",
		notification.WithNotifier(notification.EmailSystem, mailer),
		notification.WithDefaultTemplates(),
	)
	require.NoError(t, err)

	h := NewHandle(grievance.NewService(partners, nm))

	r := chi.NewRouter()
	if authenticated {
		r.Use(withIdentity)
	}
	r.Get("/api/is-verified", h.IsVerified)
	r.Post("/api/send-grievance", h.SendGrievance)
	return r, mailer
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIsVerified(t *testing.T) {
	partners := partner.NewMemoryPartnerRepository()
	_, err := partners.MarkVerified(context.Background(), "bob@example.com")
	require.NoError(t, err)
	r, _ := setupRouter(t, partners, true)

	tests := []struct {
		query    string
		verified bool
	}{
		{"email=bob@example.com", true},
		{"email=BOB@example.com", true},
		{"email=dave@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(r, http.MethodGet, "/api/is-verified?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp IsVerifiedResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.verified, resp.Verified)
		})
	}
}

func TestIsVerified_StoreFailure(t *testing.T) {
	r, _ := setupRouter(t, brokenPartners{}, true)

	rec := do(r, http.MethodGet, "/api/is-verified?email=bob@example.com", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestSendGrievance(t *testing.T) {
	partners := partner.NewMemoryPartnerRepository()
	_, err := partners.MarkVerified(context.Background(), "bob@example.com")
	require.NoError(t, err)
	r, mailer := setupRouter(t, partners, true)

	rec := do(r, http.MethodPost, "/api/send-grievance",
		`{"partnerEmail":"bob@example.com","grievance":"you snore","senderName":"Alice","angyLevel":9}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var msg MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "Grievance sent via email.", msg.Message)

	sent, ok := mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", sent.Notification.To)
	assert.Contains(t, sent.Rendered.Text, "you snore")
	assert.Contains(t, sent.Rendered.Text, "Angy level: 9")
}

func TestSendGrievance_Errors(t *testing.T) {
	partners := partner.NewMemoryPartnerRepository()
	_, err := partners.MarkVerified(context.Background(), "bob@example.com")
	require.NoError(t, err)

	tests := []struct {
		name          string
		body          string
		authenticated bool
		status        int
		message       string
	}{
		{"no identity", `{"partnerEmail":"bob@example.com","grievance":"x"}`, false, http.StatusUnauthorized, "Unauthorized"},
		{"malformed body", `{"partnerEmail":`, true, http.StatusBadRequest, "Invalid request body"},
		{"bad angy level", `{"partnerEmail":"bob@example.com","grievance":"x","angyLevel":[1]}`, true, http.StatusBadRequest, "Invalid request body"},
		{"missing grievance", `{"partnerEmail":"bob@example.com"}`, true, http.StatusBadRequest, "invalid grievance: is required"},
		{"blank grievance", `{"partnerEmail":"bob@example.com","grievance":"   "}`, true, http.StatusBadRequest, "invalid grievance: is required"},
		{"unverified partner", `{"partnerEmail":"dave@example.com","grievance":"x"}`, true, http.StatusForbidden, "Partner email not verified."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mailer := setupRouter(t, partners, tt.authenticated)
			rec := do(r, http.MethodPost, "/api/send-grievance", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Error)
			assert.Equal(t, 0, mailer.Count())
		})
	}
}

func TestSendGrievance_DispatchFailure(t *testing.T) {
	partners := partner.NewMemoryPartnerRepository()
	_, err := partners.MarkVerified(context.Background(), "bob@example.com")
	require.NoError(t, err)
	r, mailer := setupRouter(t, partners, true)
	mailer.Err = errors.New("535 authentication failed")

	rec := do(r, http.MethodPost, "/api/send-grievance", `{"partnerEmail":"bob@example.com","grievance":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to send grievance email.", resp.Error)
}

func TestAngyLevelUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want AngyLevel
	}{
		{`"very"`, "very"},
		{`7`, "7"},
		{`7.5`, "7.5"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var a AngyLevel
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.want, a)
	}

	var a AngyLevel
	assert.Error(t, json.Unmarshal([]byte(`{}`), &a))
}
