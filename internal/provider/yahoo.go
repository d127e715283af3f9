package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mailprobe/internal/smtp"
)

// yahooSignupResponse is the subset of Yahoo's account-creation endpoint's
// JSON body this probe cares about: submitting an address already in use
// surfaces a distinct error code from one that's free.
type yahooSignupResponse struct {
	Errors []struct {
		Name string `json:"name"`
	} `json:"errors"`
}

// ProbeYahoo runs the account-lookup HTTP probe: a GET against Yahoo's
// username-availability check, interpreting the "already exists" error
// as deliverable.
func ProbeYahoo(ctx context.Context, client *http.Client, username string) (smtp.Details, error) {
	url := fmt.Sprintf("https://login.yahoo.com/account/module/create?validateField=yid&yid=%s", username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return smtp.Details{}, &smtp.YahooError{Kind: "request", Message: err.Error()}
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return smtp.Details{}, &smtp.YahooError{Kind: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return smtp.Details{}, &smtp.YahooError{Kind: "status", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var body yahooSignupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return smtp.Details{}, &smtp.YahooError{Kind: "decode", Message: err.Error()}
	}

	details := smtp.Details{CanConnectSMTP: true}
	for _, e := range body.Errors {
		if strings.EqualFold(e.Name, "IDENTIFIER_EXISTS") {
			details.IsDeliverable = true
			return details, nil
		}
	}
	details.IsDeliverable = false
	return details, nil
}
