// Package misc computes the miscellaneous, non-blocking metadata attached
// to every verification: disposable/role detection, Gravatar, HaveIBeenPwned,
// and a set of diagnostic-only extended signals. None of it can fail the
// pipeline — every check folds errors into a conservative zero value.
package misc

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mailprobe/internal/syntax"
)

// Details is the base MiscDetails entity from the data model.
type Details struct {
	IsDisposable   bool
	IsRoleAccount  bool
	GravatarURL    string
	HaveIBeenPwned *bool
	Extended       *ExtendedSignals
}

// Input bundles the parameters the misc checks need, kept separate from the
// pipeline's own Input type so this package has no dependency on it.
type Input struct {
	Address              string
	Username             string
	Domain               string
	CheckGravatar        bool
	HaveIBeenPwnedAPIKey string
	Client               *http.Client
}

// Compute runs the base checks synchronously (they're all cheap local
// lookups plus at most three HTTP calls: Gravatar, HIBP, and one HIBP retry
// after a 429) and returns Details with
// conservative defaults on any failure.
func Compute(ctx context.Context, in Input) Details {
	client := in.Client
	if client == nil {
		client = http.DefaultClient
	}

	d := Details{
		IsDisposable:  syntax.IsDisposableDomain(in.Domain),
		IsRoleAccount: syntax.IsRoleAccount(in.Username),
	}

	if in.CheckGravatar {
		if url, ok := checkGravatar(ctx, client, in.Address); ok {
			d.GravatarURL = url
		}
	}

	if in.HaveIBeenPwnedAPIKey != "" {
		if pwned, ok := checkHIBP(ctx, client, in.Address, in.HaveIBeenPwnedAPIKey); ok {
			d.HaveIBeenPwned = &pwned
		}
	}

	return d
}

func checkGravatar(ctx context.Context, client *http.Client, email string) (string, bool) {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	avatarURL := fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=404", hash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return avatarURL, true
	}
	return "", false
}

const hibpURL = "https://haveibeenpwned.com/api/v3/breachedaccount/"

func checkHIBP(ctx context.Context, client *http.Client, email, apiKey string) (bool, bool) {
	endpoint := hibpURL + url.PathEscape(email) + "?truncateResponse=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, false
	}
	req.Header.Set("hibp-api-key", apiKey)
	req.Header.Set("User-Agent", "mailprobe-verifier")

	resp, err := client.Do(req)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, true
	case http.StatusNotFound:
		return false, true
	case http.StatusTooManyRequests:
		select {
		case <-time.After(1600 * time.Millisecond):
		case <-ctx.Done():
			return false, false
		}
		return checkHIBPOnce(ctx, client, endpoint, apiKey)
	default:
		return false, false
	}
}

// checkHIBPOnce is the single-attempt retry after a 429 backoff — no further
// retry on a second failure, matching the teacher's two-attempt ceiling.
func checkHIBPOnce(ctx context.Context, client *http.Client, endpoint, apiKey string) (bool, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, false
	}
	req.Header.Set("hibp-api-key", apiKey)
	req.Header.Set("User-Agent", "mailprobe-verifier")

	resp, err := client.Do(req)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, true
	case http.StatusNotFound:
		return false, true
	default:
		return false, false
	}
}

