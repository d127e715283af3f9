// Package pipeline wires the syntax, MX, misc, and SMTP/provider layers into
// the single check_email entry point and fuses their results into a verdict.
package pipeline

import (
	"time"

	"mailprobe/internal/misc"
	"mailprobe/internal/mx"
	"mailprobe/internal/provider"
	"mailprobe/internal/proxy"
	"mailprobe/internal/smtp"
	"mailprobe/internal/syntax"
)

// Reachability is the verdict a verification collapses into.
type Reachability string

const (
	Safe    Reachability = "Safe"
	Risky   Reachability = "Risky"
	Invalid Reachability = "Invalid"
	Unknown Reachability = "Unknown"
)

// Input bundles everything one check_email call needs. Mirrors §3's Input
// entity: the provider-family strategy table and the named proxy table are
// supplied by the caller (cmd/api, cmd/worker) rather than hardcoded here.
type Input struct {
	ToEmail              string
	VerifMethod          provider.StrategyTable
	Proxies              proxy.Table
	SmtpConfig           smtp.Config
	CheckGravatar        bool
	HaveIBeenPwnedAPIKey string
	BackendName          string
	Headless             provider.HeadlessProber
}

// Debug carries the timing and transport metadata attached to every output,
// regardless of verdict.
type Debug struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Smtp        smtp.Debug
	BackendName string
}

// CheckEmailOutput is the complete, JSON-serializable result of one
// check_email call. Every field is populated even on early-exit paths, with
// conservative zero values for stages that never ran.
type CheckEmailOutput struct {
	Input       string
	IsReachable Reachability
	Reason      string
	Syntax      syntax.Details
	Mx          mx.Details
	Misc        misc.Details
	Smtp        smtp.Details
	Debug       Debug
}
