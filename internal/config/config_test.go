package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.App.Name != "escalation-service" {
		t.Errorf("App.Name = %q, want escalation-service", cfg.App.Name)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("App.Addr() = %q, want 0.0.0.0:8080", cfg.App.Addr())
	}
	if cfg.Mail.PollEnabled {
		t.Error("Mail.PollEnabled = true by default, want false")
	}
	if !cfg.Classifier.TriggerOnNegative || !cfg.Classifier.TriggerOnUrgent {
		t.Errorf("trigger formula defaults = %+v, want both enabled", cfg.Classifier)
	}
	if cfg.Auth.Enabled {
		t.Error("Auth.Enabled = true by default, want false")
	}
}

func TestMailPollRequiresCredentials(t *testing.T) {
	t.Setenv("MAIL_POLL_ENABLED", "true")
	t.Setenv("GRAPH_TENANT_ID", "")
	t.Setenv("GRAPH_CLIENT_ID", "")
	t.Setenv("GRAPH_CLIENT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load with polling enabled and no credentials succeeded, want error")
	}
}

func TestMailboxListParsing(t *testing.T) {
	t.Setenv("MAIL_POLL_ENABLED", "true")
	t.Setenv("GRAPH_TENANT_ID", "tenant")
	t.Setenv("GRAPH_CLIENT_ID", "client")
	t.Setenv("GRAPH_CLIENT_SECRET", "secret")
	t.Setenv("GRAPH_MAILBOXES", "support@example.com, escalations@example.com ,")
	t.Setenv("MAIL_POLL_INTERVAL_SECONDS", "120")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	want := []string{"support@example.com", "escalations@example.com"}
	if len(cfg.Mail.Mailboxes) != len(want) {
		t.Fatalf("Mailboxes = %v, want %v", cfg.Mail.Mailboxes, want)
	}
	for i, mailbox := range want {
		if cfg.Mail.Mailboxes[i] != mailbox {
			t.Errorf("Mailboxes[%d] = %q, want %q", i, cfg.Mail.Mailboxes[i], mailbox)
		}
	}
	if cfg.Mail.PollInterval() != 2*time.Minute {
		t.Errorf("PollInterval() = %v, want 2m", cfg.Mail.PollInterval())
	}
}
