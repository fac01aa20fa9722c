// Package mailgraph fetches inbox messages from the Microsoft Graph API for
// the polled-mailbox producer. It only ever sees mailboxes the operator
// configured; filtering beyond that belongs to the caller.
package mailgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/spec-kit/escalation-service/internal/config"
)

// Message is one post-filter mail record handed to the core.
type Message struct {
	Sender     string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Source is the mail collaborator contract the poller depends on.
type Source interface {
	Mailboxes() []string
	FetchInbox(ctx context.Context, mailbox string) ([]Message, error)
}

// Client talks to Microsoft Graph using the client-credentials flow. The
// oauth2 transport caches and refreshes the token across ticks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mailboxes  []string
	pageSize   int
}

// NewClient builds a Graph client from configuration.
func NewClient(cfg config.MailConfig) *Client {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Client{
		httpClient: creds.Client(context.Background()),
		baseURL:    cfg.GraphBaseURL,
		mailboxes:  cfg.Mailboxes,
		pageSize:   pageSize,
	}
}

// Mailboxes returns the configured mailbox addresses.
func (c *Client) Mailboxes() []string {
	return c.mailboxes
}

type graphMessage struct {
	Subject string `json:"subject"`
	From    struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
	Body struct {
		Content string `json:"content"`
	} `json:"body"`
	ReceivedDateTime time.Time `json:"receivedDateTime"`
}

type graphMessageList struct {
	Value []graphMessage `json:"value"`
}

// FetchInbox lists the newest inbox messages for one mailbox.
func (c *Client) FetchInbox(ctx context.Context, mailbox string) ([]Message, error) {
	endpoint := fmt.Sprintf("%s/users/%s/mailFolders/inbox/messages?$top=%s",
		c.baseURL, url.PathEscape(mailbox), strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch inbox %s: %w", mailbox, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch inbox %s: status %d: %s", mailbox, resp.StatusCode, body)
	}

	var list graphMessageList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode inbox %s: %w", mailbox, err)
	}

	messages := make([]Message, 0, len(list.Value))
	for _, m := range list.Value {
		messages = append(messages, Message{
			Sender:     m.From.EmailAddress.Address,
			Subject:    m.Subject,
			Body:       m.Body.Content,
			ReceivedAt: m.ReceivedDateTime,
		})
	}
	return messages, nil
}
