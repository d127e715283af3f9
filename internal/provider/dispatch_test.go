package provider

import (
	"context"
	"testing"

	"mailprobe/internal/proxy"
	"mailprobe/internal/smtp"
)

func TestDispatchSkipped(t *testing.T) {
	table := StrategyTable{FamilyEverythingElse: StrategySkipped}
	details, debug, err := Dispatch(context.Background(), "user@random.test", "random.test", "mx.random.test", table, smtp.Config{}, proxy.Table{}, nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if details != (smtp.Details{}) {
		t.Errorf("Dispatch(Skipped) details = %+v, want zero value", details)
	}
	if debug.VerificationMethod != "skipped" {
		t.Errorf("Debug.VerificationMethod = %q, want skipped", debug.VerificationMethod)
	}
}

func TestDispatchHeadlessUnconfigured(t *testing.T) {
	table := StrategyTable{FamilyHotmailB2C: StrategyHeadless}
	_, _, err := Dispatch(context.Background(), "user@hotmail.com", "hotmail.com", "hotmail-com.olc.protection.outlook.com", table, smtp.Config{}, proxy.Table{}, nil)
	if err == nil {
		t.Fatal("expected an error from the unconfigured headless prober")
	}
	if _, ok := err.(*smtp.HeadlessError); !ok {
		t.Errorf("Dispatch error = %T, want *smtp.HeadlessError", err)
	}
}
