package api

// SendVerificationRequest is the body of POST /api/send-verification
type SendVerificationRequest struct {
	PartnerEmail string `json:"partnerEmail"`
}

// MessageResponse is a plain success body
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResponse is the body of GET /api/verify, on success and failure
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every other failure
type ErrorResponse struct {
	Error string `json:"error"`
}
