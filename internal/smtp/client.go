package smtp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"mailprobe/internal/proxy"
)

// connSemaphore bounds concurrent outbound SMTP connections process-wide,
// independent of which MX host or proxy a probe targets — keeps a single
// worker from opening enough sockets to get the sending IP banned.
var connSemaphore = make(chan struct{}, 15)

// strictGateways are MX host substrings of enterprise secure email
// gateways known to tarpit fast, robotic-looking SMTP conversations. When
// detected, command pacing slows down and the connection deadline widens.
var strictGateways = []string{
	"mimecast.com", "pphosted.com", "barracudanetworks.com",
	"messagelabs.com", "iphmx.com", "trendmicro.com", "trendmicro.eu",
	"sophos.com", "mailcontrol.com", "mxlogic.net", "fireeye.com",
	"mx.cloudflare.net",
}

func isStrictEnterprise(mxHost string) bool {
	lower := strings.ToLower(mxHost)
	for _, gw := range strictGateways {
		if strings.Contains(lower, gw) {
			return true
		}
	}
	return false
}

// Probe runs the generic SMTP conversation against mxHost for targetEmail,
// retrying transient failures per cfg.Retries with exponential backoff. pace,
// if non-nil, is a per-provider-family rate.Limiter consulted before each
// attempt so concurrent probes against the same family don't retry in
// lockstep.
func Probe(ctx context.Context, mxHost, targetEmail, domain string, cfg Config, proxies proxy.Table, pace *rate.Limiter) (Details, Debug, error) {
	var desc proxy.Descriptor
	debug := Debug{VerificationMethod: "smtp"}

	if cfg.ProxyID != "" {
		d, err := proxy.Resolve(proxies, cfg.ProxyID)
		if err != nil {
			return Details{}, debug, &UnexpectedError{Cause: fmt.Errorf("smtp-config names proxy %q: %w", cfg.ProxyID, err)}
		}
		desc = d
		debug.ProxyUsed = cfg.ProxyID
	}

	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return Details{}, debug, &TimeoutError{Elapsed: backoff}
			}
			backoff *= 2
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
		}
		if pace != nil {
			if err := pace.Wait(ctx); err != nil {
				return Details{}, debug, &TimeoutError{Elapsed: 0}
			}
		}

		details, state, err := attemptConversation(ctx, mxHost, targetEmail, domain, cfg, desc)
		debug.State = state
		if err == nil {
			return details, debug, nil
		}
		lastErr = err

		if !isRetryable(err) {
			if errDesc, ok := Describe(err); ok {
				debug.ErrorDescription = errDesc
			}
			return Details{}, debug, err
		}
	}
	if errDesc, ok := Describe(lastErr); ok {
		debug.ErrorDescription = errDesc
	}
	return Details{}, debug, lastErr
}

func isRetryable(err error) bool {
	var ce *ConversationError
	if errors.As(err, &ce) {
		return isTransient(ce.Code)
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var ioe *IOError
	return errors.As(err, &ioe)
}

func attemptConversation(ctx context.Context, mxHost, targetEmail, domain string, cfg Config, desc proxy.Descriptor) (Details, State, error) {
	select {
	case connSemaphore <- struct{}{}:
	case <-ctx.Done():
		return Details{}, StateInit, &TimeoutError{Elapsed: 0}
	}
	defer func() { <-connSemaphore }()

	port := cfg.Port
	if port == 0 {
		port = 25
	}
	addr := net.JoinHostPort(mxHost, fmt.Sprintf("%d", port))

	conn, err := proxy.DialContext(ctx, "tcp", addr, desc, cfg.Timeout())
	if err != nil {
		return Details{}, StateInit, wrapDialErr(err)
	}

	strict := isStrictEnterprise(mxHost)
	deadlineOffset := 12 * time.Second
	if strict {
		deadlineOffset = 16 * time.Second
	}
	deadline := time.Now().Add(deadlineOffset)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		conn.Close()
		return Details{}, StateConnected, classifyCommandErr(err)
	}
	defer client.Close()

	smartDelay := func() error {
		if !strict {
			return nil
		}
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	state := StateGreeted // net/smtp.NewClient already consumed and validated the 220 banner.

	if err := smartDelay(); err != nil {
		return Details{}, state, &TimeoutError{Elapsed: deadlineOffset}
	}
	helloName := cfg.HelloName
	if helloName == "" {
		helloName = "mta1.mailprobe.local"
	}
	if err := client.Hello(helloName); err != nil {
		return Details{}, state, classifyCommandErr(err)
	}
	state = StateHelloed

	if err := smartDelay(); err != nil {
		return Details{}, state, &TimeoutError{Elapsed: deadlineOffset}
	}
	fromEmail := cfg.FromEmail
	if err := client.Mail(fromEmail); err != nil {
		return Details{}, state, classifyCommandErr(err)
	}
	state = StateMailFromAccepted

	if err := smartDelay(); err != nil {
		return Details{}, state, &TimeoutError{Elapsed: deadlineOffset}
	}
	err = client.Rcpt(targetEmail)
	state = StateProbedRcpt

	var details Details
	details.CanConnectSMTP = true
	if err != nil {
		code, line := replyCodeAndLine(err)
		if code == 0 {
			return Details{}, state, classifyCommandErr(err)
		}
		details = classifyRcpt(code, line)
	} else {
		details.IsDeliverable = true
		details.IsCatchAll = probeCatchAll(client, domain)
	}

	_ = client.Quit()
	return details, StateClosed, nil
}

// probeCatchAll sends a second RCPT with a random local-part; if the
// server also accepts it, the domain looks like a catch-all. Run only when
// the primary RCPT already succeeded; its own failure never invalidates the
// primary deliverability signal.
func probeCatchAll(client *smtp.Client, domain string) bool {
	randomAddr := fmt.Sprintf("%s@%s", uuid.New().String(), domain)
	return client.Rcpt(randomAddr) == nil
}

func replyCodeAndLine(err error) (int, string) {
	var textErr *textproto.Error
	if e, ok := err.(*textproto.Error); ok {
		textErr = e
	}
	if textErr != nil {
		return textErr.Code, textErr.Msg
	}
	return 0, err.Error()
}

func classifyCommandErr(err error) error {
	code, line := replyCodeAndLine(err)
	if code != 0 {
		return &ConversationError{Code: code, Line: line}
	}
	return &IOError{Cause: err}
}

func wrapDialErr(err error) error {
	var se *proxy.Socks5Error
	if errors.As(err, &se) {
		return &Socks5Error{Detail: se.Detail, Cause: se}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Elapsed: 0}
	}
	return &IOError{Cause: err}
}
