package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/grievance-portal/pkg/errors"
	"github.com/tendant/grievance-portal/pkg/verification"
)

// Handle serves the public verification endpoints
type Handle struct {
	service *verification.Service
}

func NewHandle(service *verification.Service) *Handle {
	return &Handle{service: service}
}

// SendVerification handles POST /api/send-verification
func (h *Handle) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	slog.Info("Sending verification", "partnerEmail", req.PartnerEmail)
	if err := h.service.RequestVerification(r.Context(), req.PartnerEmail); err != nil {
		render.Status(r, apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(err)))
		render.JSON(w, r, ErrorResponse{Error: apperrors.PublicMessage(err, "Failed to send verification email.")})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Verification email sent."})
}

// Verify handles GET /api/verify?token=..&email=..
func (h *Handle) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")
	slog.Info("Verify request received", "email", email)

	if _, err := h.service.Verify(r.Context(), token, email); err != nil {
		render.Status(r, apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(err)))
		render.JSON(w, r, VerifyResponse{Success: false, Message: apperrors.PublicMessage(err, "Failed to verify partner.")})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, VerifyResponse{Success: true, Message: "Partner verified."})
}
