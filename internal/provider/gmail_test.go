package provider

import (
	"context"
	"net/http"
	"testing"

	gock "gopkg.in/h2non/gock.v1"
)

func TestProbeGmailDeliverable(t *testing.T) {
	defer gock.Off()

	gock.New("https://mail.google.com").
		Get("/mail/gxlu").
		Reply(200).
		SetHeader("Set-Cookie", "COMPASS=abc; Path=/").
		BodyString("")

	client := &http.Client{}
	gock.InterceptClient(client)

	details, err := ProbeGmail(context.Background(), client, "user@gmail.com")
	if err != nil {
		t.Fatalf("ProbeGmail: %v", err)
	}
	if !details.IsDeliverable {
		t.Error("expected IsDeliverable = true when a login-hint cookie is set")
	}
}

func TestProbeGmailNotDeliverable(t *testing.T) {
	defer gock.Off()

	gock.New("https://mail.google.com").
		Get("/mail/gxlu").
		Reply(200).
		BodyString("")

	client := &http.Client{}
	gock.InterceptClient(client)

	details, err := ProbeGmail(context.Background(), client, "nobody@gmail.com")
	if err != nil {
		t.Fatalf("ProbeGmail: %v", err)
	}
	if details.IsDeliverable {
		t.Error("expected IsDeliverable = false with no login-hint cookie")
	}
}
