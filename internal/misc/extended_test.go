package misc

import "testing"

func TestEntropy(t *testing.T) {
	if e := entropy(""); e != 0 {
		t.Errorf("entropy(\"\") = %v, want 0", e)
	}
	if e := entropy("123456"); e != 1 {
		t.Errorf("entropy(all digits) = %v, want 1", e)
	}
	if e := entropy("abcdef"); e != 0 {
		t.Errorf("entropy(no digits) = %v, want 0", e)
	}
}

func TestIdentifyProvider(t *testing.T) {
	cases := map[string]string{
		"aspmx.l.google.com":                "google",
		"contoso-com.mail.protection.outlook.com": "office365",
		"mx.pphosted.com":                   "proofpoint",
		"mx.mimecast.com":                   "mimecast",
		"mx.unknown-host.test":              "generic",
	}
	for host, want := range cases {
		if got := identifyProvider(host); got != want {
			t.Errorf("identifyProvider(%q) = %q, want %q", host, got, want)
		}
	}
}
