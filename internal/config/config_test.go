package config

import (
	"testing"

	"mailprobe/internal/provider"
)

func TestLoadProxiesParsesHostPort(t *testing.T) {
	table, rotator := loadProxies("p1=10.0.0.1:1080,p2=10.0.0.2:1080:user:pass", "")
	if len(table) != 2 {
		t.Fatalf("len(table) = %d, want 2", len(table))
	}
	if table["p1"].Port != 1080 {
		t.Errorf("p1.Port = %d, want 1080", table["p1"].Port)
	}
	if table["p2"].Username != "user" || table["p2"].Password != "pass" {
		t.Errorf("p2 credentials = %+v, want user/pass", table["p2"])
	}
	if rotator.Len() != 2 {
		t.Errorf("rotator.Len() = %d, want 2", rotator.Len())
	}
}

func TestLoadProxiesEmpty(t *testing.T) {
	table, rotator := loadProxies("", "")
	if len(table) != 0 {
		t.Errorf("len(table) = %d, want 0", len(table))
	}
	if _, ok := rotator.Next(); ok {
		t.Error("expected Next() to report no proxies on an empty list")
	}
}

func TestLoadVerifMethodOverridesDefault(t *testing.T) {
	table := loadVerifMethod("gmail=smtp,yahoo=skipped")
	if table.StrategyFor(provider.FamilyGmail) != provider.StrategySmtp {
		t.Errorf("gmail strategy = %v, want smtp override", table.StrategyFor(provider.FamilyGmail))
	}
	if table.StrategyFor(provider.FamilyYahoo) != provider.StrategySkipped {
		t.Errorf("yahoo strategy = %v, want skipped override", table.StrategyFor(provider.FamilyYahoo))
	}
	// Unmentioned families keep the default.
	if table.StrategyFor(provider.FamilyHotmailB2B) != provider.StrategySmtp {
		t.Errorf("hotmail_b2b strategy = %v, want default smtp", table.StrategyFor(provider.FamilyHotmailB2B))
	}
}

func TestLoadVerifMethodEmptyUsesDefault(t *testing.T) {
	table := loadVerifMethod("")
	if table.StrategyFor(provider.FamilyGmail) != provider.StrategyApi {
		t.Errorf("gmail strategy = %v, want default api", table.StrategyFor(provider.FamilyGmail))
	}
}
