package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/dukerupert/wanderpack/internal/model"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL points the client at a different Postmark-compatible endpoint.
func WithAPIURL(u string) Option {
	return func(cl *Client) {
		cl.apiURL = u
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiURL:      defaultAPIURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	ReplyTo  string `json:"ReplyTo,omitempty"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendContactNotification forwards a contact form submission to the site owner.
// Replies go to the sender.
func (c *Client) SendContactNotification(ctx context.Context, ownerEmail string, msg model.ContactMessage) error {
	textBody := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s", msg.Name, msg.Email, msg.Subject, msg.Message)
	htmlBody := fmt.Sprintf(
		`<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Subject:</strong> %s</p><p>%s</p>`,
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Subject),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)

	return c.send(ctx, postmarkEmail{
		From:     c.fromEmail,
		To:       ownerEmail,
		ReplyTo:  msg.Email,
		Subject:  "New contact message: " + msg.Subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
}

// SendWelcome greets a new newsletter subscriber.
func (c *Client) SendWelcome(ctx context.Context, toEmail, firstname string) error {
	greeting := "Hi"
	if firstname != "" {
		greeting = "Hi " + firstname
	}
	link := c.baseURL + "/tips"
	textBody := fmt.Sprintf("%s,\n\nThanks for subscribing to Wanderpack. Packing tips for your next trip:\n\n%s", greeting, link)
	htmlBody := fmt.Sprintf(
		`<p>%s,</p><p>Thanks for subscribing to Wanderpack.</p><p><a href="%s">Packing tips for your next trip</a></p>`,
		html.EscapeString(greeting), link,
	)

	return c.send(ctx, postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Welcome to Wanderpack",
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
}

func (c *Client) send(ctx context.Context, payload postmarkEmail) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
