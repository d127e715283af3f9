package misc

import (
	"context"
	"net/http"
	"testing"

	gock "gopkg.in/h2non/gock.v1"
)

func TestComputeBaseFields(t *testing.T) {
	d := Compute(context.Background(), Input{
		Address:  "admin@mailinator.com",
		Username: "admin",
		Domain:   "mailinator.com",
	})
	if !d.IsDisposable {
		t.Error("expected IsDisposable = true for mailinator.com")
	}
	if !d.IsRoleAccount {
		t.Error("expected IsRoleAccount = true for admin")
	}
}

func TestComputeGravatarHit(t *testing.T) {
	defer gock.Off()
	client := &http.Client{}
	gock.InterceptClient(client)

	gock.New("https://www.gravatar.com").
		Get("/avatar/.*").
		Reply(200)

	d := Compute(context.Background(), Input{
		Address:       "user@example.com",
		Username:      "user",
		Domain:        "example.com",
		CheckGravatar: true,
		Client:        client,
	})
	if d.GravatarURL == "" {
		t.Error("expected a populated GravatarURL on a 200 response")
	}
}

func TestComputeGravatarMiss(t *testing.T) {
	defer gock.Off()
	client := &http.Client{}
	gock.InterceptClient(client)

	gock.New("https://www.gravatar.com").
		Get("/avatar/.*").
		Reply(404)

	d := Compute(context.Background(), Input{
		Address:       "user@example.com",
		Username:      "user",
		Domain:        "example.com",
		CheckGravatar: true,
		Client:        client,
	})
	if d.GravatarURL != "" {
		t.Errorf("expected empty GravatarURL on a 404, got %q", d.GravatarURL)
	}
}

func TestComputeHIBP(t *testing.T) {
	defer gock.Off()
	client := &http.Client{}
	gock.InterceptClient(client)

	gock.New("https://haveibeenpwned.com").
		Get("/api/v3/breachedaccount/.*").
		Reply(200).
		JSON([]map[string]string{{"Name": "Adobe"}})

	d := Compute(context.Background(), Input{
		Address:              "user@example.com",
		Username:             "user",
		Domain:               "example.com",
		HaveIBeenPwnedAPIKey: "test-key",
		Client:               client,
	})
	if d.HaveIBeenPwned == nil || !*d.HaveIBeenPwned {
		t.Error("expected HaveIBeenPwned = true on a breach hit")
	}
}
