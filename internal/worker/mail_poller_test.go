package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/escalation-service/internal/classifier"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/mailgraph"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/repository"
	"github.com/spec-kit/escalation-service/internal/service"
)

type fakeMailSource struct {
	mu        sync.Mutex
	mailboxes []string
	messages  map[string][]mailgraph.Message
	err       error
	fetches   int
}

func (f *fakeMailSource) Mailboxes() []string {
	return f.mailboxes
}

func (f *fakeMailSource) FetchInbox(ctx context.Context, mailbox string) ([]mailgraph.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.messages[mailbox], nil
}

func (f *fakeMailSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newPollerService() *service.EscalationService {
	return service.NewEscalationService(service.EscalationDependencies{
		CaseRepo:   repository.NewMemoryCaseRepository(),
		Classifier: classifier.New(classifier.DefaultLexicon()),
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestMailPollerCreatesCasesFromMessages(t *testing.T) {
	source := &fakeMailSource{
		mailboxes: []string{"support@example.com"},
		messages: map[string][]mailgraph.Message{
			"support@example.com": {
				{
					Sender:     "customer@acme.com",
					Subject:    "Production outage",
					Body:       "The whole system is down, please escalate immediately.",
					ReceivedAt: time.Now().UTC(),
				},
				{
					Sender:  "other@acme.com",
					Subject: "Thanks",
					Body:    "All good, just saying thanks.",
				},
			},
		},
	}

	svc := newPollerService()
	poller := NewMailPoller(source, svc, time.Hour, time.Second, zap.NewNop())
	poller.Start()
	defer func() {
		poller.Stop()
		poller.Wait()
	}()

	waitFor(t, time.Second, func() bool {
		cases, err := svc.Snapshot(context.Background())
		return err == nil && len(cases) == 1
	})

	cases, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	c := cases[0]
	if c.Source != domain.SourceMail {
		t.Errorf("source = %s, want %s", c.Source, domain.SourceMail)
	}
	if c.Customer != "customer@acme.com" {
		t.Errorf("customer = %q, want sender address", c.Customer)
	}
}

func TestMailPollerTicksOnInterval(t *testing.T) {
	source := &fakeMailSource{mailboxes: []string{"support@example.com"}}

	poller := NewMailPoller(source, newPollerService(), 10*time.Millisecond, time.Second, zap.NewNop())
	poller.Start()
	defer func() {
		poller.Stop()
		poller.Wait()
	}()

	waitFor(t, time.Second, func() bool { return source.fetchCount() >= 3 })
}

func TestMailPollerStopHaltsTicks(t *testing.T) {
	source := &fakeMailSource{mailboxes: []string{"support@example.com"}}

	poller := NewMailPoller(source, newPollerService(), 10*time.Millisecond, time.Second, zap.NewNop())
	poller.Start()
	waitFor(t, time.Second, func() bool { return source.fetchCount() >= 1 })

	poller.Stop()
	poller.Wait()

	stopped := source.fetchCount()
	time.Sleep(50 * time.Millisecond)
	if got := source.fetchCount(); got != stopped {
		t.Errorf("fetches continued after Stop: %d -> %d", stopped, got)
	}
}

func TestMailPollerSurvivesFetchErrors(t *testing.T) {
	source := &fakeMailSource{
		mailboxes: []string{"support@example.com"},
		err:       errors.New("graph unavailable"),
	}

	poller := NewMailPoller(source, newPollerService(), 10*time.Millisecond, time.Second, zap.NewNop())
	poller.Start()
	defer func() {
		poller.Stop()
		poller.Wait()
	}()

	// a failing mailbox must not kill the loop; later ticks keep retrying
	waitFor(t, time.Second, func() bool { return source.fetchCount() >= 2 })
}

func TestNormalizeMessageFallbacks(t *testing.T) {
	record := normalizeMessage("support@example.com", mailgraph.Message{
		Subject: "Outage",
		Body:    "system down",
	})
	if record.Customer != "support@example.com" {
		t.Errorf("customer = %q, want mailbox fallback", record.Customer)
	}
	if record.IssueText != "Outage\nsystem down" {
		t.Errorf("issue text = %q", record.IssueText)
	}
	if record.Source != domain.SourceMail {
		t.Errorf("source = %s, want %s", record.Source, domain.SourceMail)
	}
	if record.ReportedAt.IsZero() {
		t.Error("reported at not defaulted")
	}
}
