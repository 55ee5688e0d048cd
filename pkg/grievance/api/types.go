package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SendGrievanceRequest is the body of POST /api/send-grievance
type SendGrievanceRequest struct {
	PartnerEmail string    `json:"partnerEmail"`
	Grievance    string    `json:"grievance"`
	SenderName   string    `json:"senderName,omitempty"`
	AngyLevel    AngyLevel `json:"angyLevel,omitempty"`
}

// AngyLevel accepts either a JSON string or a JSON number
type AngyLevel string

func (a *AngyLevel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AngyLevel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("angyLevel must be a string or a number")
	}
	*a = AngyLevel(n.String())
	return nil
}

type IsVerifiedResponse struct {
	Verified bool `json:"verified"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
