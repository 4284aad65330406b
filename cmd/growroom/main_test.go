package main

import (
	"reflect"
	"testing"

	"github.com/keegan/growroom/internal/control"
)

func TestParseRecipients(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a@example.com", []string{"a@example.com"}},
		{"a@example.com,b@example.com", []string{"a@example.com", "b@example.com"}},
		{" a@example.com , b@example.com ", []string{"a@example.com", "b@example.com"}},
		{"a@example.com,,b@example.com,", []string{"a@example.com", "b@example.com"}},
	}
	for _, tc := range cases {
		got := parseRecipients(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseRecipients(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestResolveMode(t *testing.T) {
	if m, err := resolveMode("hysteresis"); err != nil || m != control.ModeHysteresis {
		t.Errorf("resolveMode(hysteresis) = %v, %v", m, err)
	}
	if m, err := resolveMode("duty"); err != nil || m != control.ModeDuty {
		t.Errorf("resolveMode(duty) = %v, %v", m, err)
	}
	if _, err := resolveMode("bang-bang"); err == nil {
		t.Error("resolveMode(bang-bang) should fail")
	}
}

func TestSMTPFromEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "grower")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "growroom@example.com")

	cfg, err := smtpFromEnv()
	if err != nil {
		t.Fatalf("smtpFromEnv: %v", err)
	}
	if cfg.Host != "smtp.example.com" || cfg.Port != 2525 {
		t.Errorf("host/port: got %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Username != "grower" || cfg.Password != "secret" {
		t.Errorf("credentials: got %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.From != "growroom@example.com" {
		t.Errorf("from: got %q", cfg.From)
	}
}

func TestSMTPFromEnvDefaultPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "growroom@example.com")

	cfg, err := smtpFromEnv()
	if err != nil {
		t.Fatalf("smtpFromEnv: %v", err)
	}
	if cfg.Port != 587 {
		t.Errorf("default port: got %d, want 587", cfg.Port)
	}
}

func TestSMTPFromEnvMissingHost(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "growroom@example.com")

	if _, err := smtpFromEnv(); err == nil {
		t.Error("expected error when SMTP_HOST is unset")
	}
}

func TestSMTPFromEnvBadPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("SMTP_FROM", "growroom@example.com")

	if _, err := smtpFromEnv(); err == nil {
		t.Error("expected error for non-numeric SMTP_PORT")
	}
}
