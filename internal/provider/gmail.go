package provider

import (
	"context"
	"fmt"
	"net/http"

	"mailprobe/internal/smtp"
)

// ProbeGmail runs an unauthenticated HTTP heuristic against Google's account
// recovery hint surface: an unknown address returns a distinct response
// from a known one well before any password is involved. Grounded on the
// same request shape (shared client, proxy-aware transport, rotating user
// agent) as the teacher's CheckGoogleCalendar/CheckSharePoint probes.
func ProbeGmail(ctx context.Context, client *http.Client, email string) (smtp.Details, error) {
	url := fmt.Sprintf("https://mail.google.com/mail/gxlu?email=%s", email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return smtp.Details{}, &smtp.GmailError{Kind: "request", Message: err.Error()}
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return smtp.Details{}, &smtp.GmailError{Kind: "transport", Message: err.Error()}
	}
	defer resp.Body.Close()

	// gxlu sets a login hint cookie for any address it recognizes as
	// belonging to a live Google account and returns a blank 204/200
	// regardless; presence of the Set-Cookie header is the signal.
	details := smtp.Details{CanConnectSMTP: true}
	if len(resp.Header.Values("Set-Cookie")) > 0 {
		details.IsDeliverable = true
	}
	return details, nil
}
