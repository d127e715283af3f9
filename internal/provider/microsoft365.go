package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mailprobe/internal/smtp"
)

// microsoftCredentialResponse mirrors login.microsoftonline.com's
// GetCredentialType response shape, ported directly from the teacher's
// MicrosoftCredentialResponse.
type microsoftCredentialResponse struct {
	Username       string `json:"Username"`
	IfExistsResult int    `json:"IfExistsResult"`
}

// ProbeMicrosoft365 queries the tenant's GetCredentialType endpoint: an
// IfExistsResult of 0 means the directory recognizes the address.
func ProbeMicrosoft365(ctx context.Context, client *http.Client, email string) (smtp.Details, error) {
	payload, _ := json.Marshal(map[string]string{"username": email})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://login.microsoftonline.com/common/GetCredentialType", bytes.NewReader(payload))
	if err != nil {
		return smtp.Details{}, &smtp.Microsoft365Error{Kind: "request", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return smtp.Details{}, &smtp.Microsoft365Error{Kind: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return smtp.Details{}, &smtp.Microsoft365Error{Kind: "status", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var result microsoftCredentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return smtp.Details{}, &smtp.Microsoft365Error{Kind: "decode", Message: err.Error()}
	}

	return smtp.Details{
		CanConnectSMTP: true,
		IsDeliverable:  result.IfExistsResult == 0,
	}, nil
}
