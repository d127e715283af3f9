package syntax

import "testing"

func TestCheck(t *testing.T) {
	cases := []struct {
		in       string
		valid    bool
		username string
		domain   string
	}{
		{"not-an-email", false, "", ""},
		{"User@Example.com", true, "user", "example.com"},
		{"admin@good.test", true, "admin", "good.test"},
		{"a..b@example.com", false, "", ""},
		{"@example.com", false, "", ""},
		{"user@", false, "", ""},
	}

	for _, c := range cases {
		got := Check(c.in)
		if got.IsValidSyntax != c.valid {
			t.Errorf("Check(%q).IsValidSyntax = %v, want %v", c.in, got.IsValidSyntax, c.valid)
			continue
		}
		if c.valid {
			if got.Username != c.username || got.Domain != c.domain {
				t.Errorf("Check(%q) = {%q, %q}, want {%q, %q}", c.in, got.Username, got.Domain, c.username, c.domain)
			}
		}
	}
}

func TestIsRoleAccount(t *testing.T) {
	if !IsRoleAccount("admin") {
		t.Error("expected admin to be a role account regardless of domain")
	}
	if !IsRoleAccount("ADMIN") {
		t.Error("expected case-insensitive match")
	}
	if IsRoleAccount("jsmith") {
		t.Error("did not expect jsmith to be a role account")
	}
}

func TestIsDisposableDomain(t *testing.T) {
	if !IsDisposableDomain("mailinator.com") {
		t.Error("expected mailinator.com to be disposable")
	}
	if IsDisposableDomain("gmail.com") {
		t.Error("did not expect gmail.com to be disposable")
	}
}

func TestEnrichSuggestion(t *testing.T) {
	d := Details{Domain: "gmial.com"}
	EnrichSuggestion(&d)
	if d.Suggestion != "gmail.com" {
		t.Errorf("Suggestion = %q, want gmail.com", d.Suggestion)
	}

	d2 := Details{Domain: "gmail.com"}
	EnrichSuggestion(&d2)
	if d2.Suggestion != "" {
		t.Errorf("Suggestion for an exact known domain should stay empty, got %q", d2.Suggestion)
	}

	d3 := Details{Domain: "totallyunrelateddomainname.test"}
	EnrichSuggestion(&d3)
	if d3.Suggestion != "" {
		t.Errorf("Suggestion for an unrelated domain should stay empty, got %q", d3.Suggestion)
	}
}
