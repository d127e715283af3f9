package smtp

import "testing"

func TestClassifyRcptDeliverable(t *testing.T) {
	d := classifyRcpt(250, "2.1.5 Recipient OK")
	if !d.IsDeliverable || !d.CanConnectSMTP {
		t.Errorf("classifyRcpt(250, ...) = %+v, want IsDeliverable and CanConnectSMTP", d)
	}
}

func TestClassifyRcptNotDeliverable(t *testing.T) {
	d := classifyRcpt(550, "5.1.1 user unknown")
	if d.IsDeliverable {
		t.Error("expected IsDeliverable = false for 550 user unknown")
	}
}

func TestClassifyRcptDisabled(t *testing.T) {
	d := classifyRcpt(550, "5.2.1 mailbox disabled")
	if !d.IsDisabled {
		t.Error("expected IsDisabled = true")
	}
}

func TestClassifyRcptFullInbox(t *testing.T) {
	d := classifyRcpt(552, "mailbox full")
	if !d.HasFullInbox {
		t.Error("expected HasFullInbox = true")
	}
}

func TestIsTransient(t *testing.T) {
	cases := map[int]bool{450: true, 451: true, 452: true, 250: false, 550: false}
	for code, want := range cases {
		if got := isTransient(code); got != want {
			t.Errorf("isTransient(%d) = %v, want %v", code, got, want)
		}
	}
}
