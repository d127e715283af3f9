package misc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// checkTeamsPresence looks for a Microsoft Teams/Skype-for-Business SIP
// federation SRV record, a cheap signal that the domain runs Microsoft 365
// collaboration tooling for its users.
func checkTeamsPresence(ctx context.Context, domain string) bool {
	_, addrs, err := net.DefaultResolver.LookupSRV(ctx, "sipfederationtls", "tcp", domain)
	if err == nil && len(addrs) > 0 {
		return true
	}
	_, addrs, err = net.DefaultResolver.LookupSRV(ctx, "sip", "tls", domain)
	return err == nil && len(addrs) > 0
}

func checkGoogleCalendar(ctx context.Context, client *http.Client, email string) bool {
	target := fmt.Sprintf("https://calendar.google.com/calendar/dav/%s/events", email)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusOK
}

func checkSharePoint(ctx context.Context, client *http.Client, email string) bool {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return false
	}
	user, domain := email[:at], email[at+1:]
	baseTenant := strings.SplitN(domain, ".", 2)[0]
	userPath := fmt.Sprintf("%s_%s", user, strings.ReplaceAll(domain, ".", "_"))
	target := fmt.Sprintf("https://%s-my.sharepoint.com/personal/%s", baseTenant, userPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusOK
}

func checkGitHub(ctx context.Context, client *http.Client, email string) bool {
	target := fmt.Sprintf("https://api.github.com/search/users?q=%s+in:email", email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var result struct {
		TotalCount int `json:"total_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}
	return result.TotalCount > 0
}

// breachCount queries the HaveIBeenPwned v3 API and returns the number of
// breaches email has appeared in, or 0 on any error/rate-limit/absence.
// Ground: teacher's CheckHIBP, generalized from a bool signal to a count for
// the extended-diagnostics field.
func breachCount(ctx context.Context, client *http.Client, email, apiKey string) int {
	endpoint := hibpURL + url.PathEscape(email) + "?truncateResponse=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("hibp-api-key", apiKey)
	req.Header.Set("User-Agent", "mailprobe-verifier")

	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}
	var breaches []struct {
		Name string `json:"Name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&breaches); err != nil {
		return 0
	}
	return len(breaches)
}

func domainAgeDays(ctx context.Context, domain string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://rdap.org/domain/"+domain, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Accept", "application/rdap+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0
	}

	var rdap struct {
		Events []struct {
			Action string `json:"eventAction"`
			Date   string `json:"eventDate"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rdap); err != nil {
		return 0
	}

	var created time.Time
	for _, event := range rdap.Events {
		if event.Action != "registration" && event.Action != "creation" {
			continue
		}
		t, err := time.Parse(time.RFC3339, event.Date)
		if err != nil {
			continue
		}
		if created.IsZero() || t.Before(created) {
			created = t
		}
	}
	if created.IsZero() {
		return 0
	}
	return int(time.Since(created).Hours() / 24)
}
