package provider

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		domain, mx string
		want       Family
	}{
		{"gmail.com", "aspmx.l.google.com", FamilyGmail},
		{"example.com", "aspmx.l.google.com", FamilyGmail},
		{"yahoo.com", "mta7.am0.yahoodns.net", FamilyYahoo},
		{"contoso.com", "contoso-com.mail.protection.outlook.com", FamilyMicrosoft365},
		{"hotmail.com", "hotmail-com.olc.protection.outlook.com", FamilyHotmailB2C},
		{"mybiz.com", "mybiz-com.mail.protection.outlook.com", FamilyMicrosoft365},
		{"random.test", "mx.random.test", FamilyEverythingElse},
	}

	for _, c := range cases {
		got := Classify(c.domain, c.mx)
		if got != c.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", c.domain, c.mx, got, c.want)
		}
	}
}

func TestStrategyForDefaultsSkipped(t *testing.T) {
	table := StrategyTable{FamilyGmail: StrategyApi}
	if got := table.StrategyFor(FamilyYahoo); got != StrategySkipped {
		t.Errorf("StrategyFor(unconfigured) = %q, want %q", got, StrategySkipped)
	}
	if got := table.StrategyFor(FamilyGmail); got != StrategyApi {
		t.Errorf("StrategyFor(gmail) = %q, want %q", got, StrategyApi)
	}
}
