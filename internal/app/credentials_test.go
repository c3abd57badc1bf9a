package app_test

import (
	"testing"

	"webinar-portal/internal/app"
)

func TestStaticCredentials(t *testing.T) {
	creds, err := app.NewStaticCredentials("Admin", "Reset@123")
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}
	if !creds.Verify("Admin", "Reset@123") {
		t.Fatalf("expected valid credentials accepted")
	}
	if creds.Verify("admin", "Reset@123") {
		t.Fatalf("expected username to be case sensitive")
	}
	if creds.Verify("Admin", "reset@123") {
		t.Fatalf("expected wrong password rejected")
	}
}
