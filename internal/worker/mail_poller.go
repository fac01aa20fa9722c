package worker

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/mailgraph"
	"github.com/spec-kit/escalation-service/internal/service"
)

// MailPoller polls the configured mailboxes on a fixed interval and feeds
// each message through the same submit path as every other producer. Ticks
// run on a single goroutine so they can never overlap; each tick is bounded
// by its own timeout, and Stop cancels in-flight work without waiting on it.
type MailPoller struct {
	source      mailgraph.Source
	escalations *service.EscalationService
	interval    time.Duration
	tickTimeout time.Duration
	logger      *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMailPoller constructs the poller.
func NewMailPoller(source mailgraph.Source, escalations *service.EscalationService, interval, tickTimeout time.Duration, logger *zap.Logger) *MailPoller {
	return &MailPoller{
		source:      source,
		escalations: escalations,
		interval:    interval,
		tickTimeout: tickTimeout,
		logger:      logger,
	}
}

// Start launches the polling loop. It runs an immediate first tick, then one
// per interval until Stop is called.
func (p *MailPoller) Start() {
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

// Stop cancels future ticks and any in-flight mail call, without waiting for
// the in-flight tick to finish.
func (p *MailPoller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
}

// Wait blocks until the polling loop has exited.
func (p *MailPoller) Wait() {
	if p.done != nil {
		<-p.done
	}
}

func (p *MailPoller) tick(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, p.tickTimeout)
	defer cancel()

	for _, mailbox := range p.source.Mailboxes() {
		if tickCtx.Err() != nil {
			return
		}

		messages, err := p.source.FetchInbox(tickCtx, mailbox)
		if err != nil {
			// failures are per tick; the next tick retries independently
			p.logger.Warn("mailbox fetch failed",
				zap.String("mailbox", mailbox),
				zap.Error(err))
			continue
		}

		for _, msg := range messages {
			record := normalizeMessage(mailbox, msg)
			outcome, err := p.escalations.Submit(tickCtx, record)
			if err != nil {
				p.logger.Warn("mail submission failed",
					zap.String("mailbox", mailbox),
					zap.Error(err))
				continue
			}
			if outcome.Created {
				p.logger.Info("mail escalation created",
					zap.String("mailbox", mailbox),
					zap.String("case_id", outcome.Case.ID))
			}
		}
	}
}

func normalizeMessage(mailbox string, msg mailgraph.Message) domain.CanonicalInputRecord {
	customer := msg.Sender
	if strings.TrimSpace(customer) == "" {
		customer = mailbox
	}

	issueText := msg.Subject
	if strings.TrimSpace(msg.Body) != "" {
		if issueText != "" {
			issueText += "\n"
		}
		issueText += msg.Body
	}

	reportedAt := msg.ReceivedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}

	return domain.CanonicalInputRecord{
		Customer:   customer,
		IssueText:  issueText,
		Source:     domain.SourceMail,
		ReportedAt: reportedAt,
	}
}
