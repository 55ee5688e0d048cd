package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/grievance-portal/pkg/errors"
	"github.com/tendant/grievance-portal/pkg/grievance"
	"github.com/tendant/grievance-portal/pkg/identity"
)

// Handle serves the authenticated grievance endpoints
type Handle struct {
	service *grievance.Service
}

func NewHandle(service *grievance.Service) *Handle {
	return &Handle{service: service}
}

func renderError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	render.Status(r, apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(err)))
	render.JSON(w, r, ErrorResponse{Error: apperrors.PublicMessage(err, fallback)})
}

// IsVerified handles GET /api/is-verified?email=..
func (h *Handle) IsVerified(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		render.JSON(w, r, IsVerifiedResponse{Verified: false})
		return
	}

	verified, err := h.service.CheckVerified(r.Context(), email)
	if err != nil {
		renderError(w, r, err, "Failed to check partner.")
		return
	}

	render.JSON(w, r, IsVerifiedResponse{Verified: verified})
}

// SendGrievance handles POST /api/send-grievance
func (h *Handle) SendGrievance(w http.ResponseWriter, r *http.Request) {
	sender, ok := identity.FromContext(r.Context())
	if !ok {
		renderError(w, r, apperrors.Unauthorized("Unauthorized"), "Unauthorized")
		return
	}

	var req SendGrievanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	err := h.service.Submit(r.Context(), sender, grievance.Submission{
		PartnerEmail: req.PartnerEmail,
		Grievance:    req.Grievance,
		SenderName:   req.SenderName,
		AngyLevel:    string(req.AngyLevel),
	})
	if err != nil {
		renderError(w, r, err, "Failed to send grievance email.")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Grievance sent via email."})
}
