package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// NotifierConfig holds the outbound-mail settings, supplied once at startup.
type NotifierConfig struct {
	APIKey            string
	FromEmail         string // e.g. "Portfolio <noreply@example.com>"
	NotificationEmail string // admin recipient for contact notifications
}

// Notifier sends contact-form emails through the Resend API. Both emails are
// best-effort: callers dispatch them after the message is persisted and only
// log failures.
type Notifier struct {
	cfg    NotifierConfig
	client *http.Client
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether outbound mail is configured at all.
func (n *Notifier) Enabled() bool {
	return n.cfg.APIKey != "" && n.cfg.FromEmail != ""
}

// DispatchContactEmails sends the admin notification and the requester
// auto-reply on a background goroutine. At most once, best effort: failures
// are logged and never reach the submitter.
func (n *Notifier) DispatchContactEmails(msg models.Message) {
	if !n.Enabled() {
		log.Debug().Msg("Outbound mail not configured, skipping contact notifications")
		return
	}

	go func() {
		if err := n.SendContactNotification(msg); err != nil {
			log.Error().Err(err).Str("messageID", msg.ID.String()).Msg("Failed to send contact notification")
		}
		if err := n.SendAutoReply(msg); err != nil {
			log.Error().Err(err).Str("messageID", msg.ID.String()).Msg("Failed to send auto-reply")
		}
	}()
}

// SendContactNotification emails the admin about a new contact submission.
func (n *Notifier) SendContactNotification(msg models.Message) error {
	if n.cfg.NotificationEmail == "" {
		return fmt.Errorf("notification recipient is not configured")
	}

	body := fmt.Sprintf(
		"New contact form submission\n\nFrom: %s <%s>\nSubject: %s\n\nMessage:\n%s\n\n---\nReply to this message by emailing %s\n",
		msg.Name, msg.Email, msg.Subject, msg.Message, msg.Email,
	)

	return n.send(resendEmailRequest{
		From:    n.cfg.FromEmail,
		To:      []string{n.cfg.NotificationEmail},
		Subject: fmt.Sprintf("[Portfolio] New message from %s: %s", msg.Name, msg.Subject),
		Text:    body,
	})
}

// SendAutoReply emails the submitter an acknowledgement.
func (n *Notifier) SendAutoReply(msg models.Message) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for reaching out! I've received your message regarding %q and will get back to you as soon as possible, usually within 24-48 hours.\n\nBest regards,\nAli Raza\n",
		msg.Name, msg.Subject,
	)

	return n.send(resendEmailRequest{
		From:    n.cfg.FromEmail,
		To:      []string{msg.Email},
		Subject: fmt.Sprintf("Thanks for reaching out, %s!", msg.Name),
		Text:    body,
	})
}

// resendEmailRequest represents the request payload for Resend API
type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// resendEmailResponse represents the response from Resend API
type resendEmailResponse struct {
	ID string `json:"id"`
}

// resendErrorResponse represents an error response from Resend API
type resendErrorResponse struct {
	Message string `json:"message"`
}

func (n *Notifier) send(payload resendEmailRequest) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp resendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse resendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
