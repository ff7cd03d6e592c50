// Package notifications sends outbound transactional email through the Brevo
// HTTP API. Sends are best-effort: callers log failures, the coaching
// lifecycle never depends on delivery.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rightfit/internal/observability"

	"github.com/google/uuid"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer is the outbound email surface the handlers and the lifecycle engine
// depend on.
type Mailer interface {
	// MentorApplication invites a prospective mentor to fill in the
	// application form.
	MentorApplication(ctx context.Context, email string) error
	// MentorVerification sends an approved mentor their verification code.
	MentorVerification(ctx context.Context, name, email, code string) error
	// RequestAccepted tells a mentee their coaching request was accepted.
	RequestAccepted(ctx context.Context, mentorName, menteeName, menteeEmail string) error
}

// BrevoMailer sends email through the Brevo transactional API.
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	endpoint    string
	client      *http.Client
}

// NewBrevoMailer returns a Mailer backed by Brevo, or nil-safe NoopMailer
// when the API key is missing so the service runs without email configured.
func NewBrevoMailer(apiKey, senderEmail, senderName string) Mailer {
	if apiKey == "" || senderEmail == "" {
		return NoopMailer{}
	}
	return &BrevoMailer{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	TextContent string              `json:"textContent"`
}

func (m *BrevoMailer) send(ctx context.Context, kind, toName, toEmail, subject, text string) error {
	err := m.deliver(ctx, toName, toEmail, subject, text)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.EmailsSent.WithLabelValues(kind, outcome).Inc()
	return err
}

func (m *BrevoMailer) deliver(ctx context.Context, toName, toEmail, subject, text string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}
	if toName == "" {
		toName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": m.senderName, "email": m.senderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		TextContent: text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-correlation-id", uuid.NewString())

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (m *BrevoMailer) MentorApplication(ctx context.Context, email string) error {
	text := "Dear " + email + ",\n\n" +
		"Thank you for expressing your interest in becoming a mentor for theRightFit.\n\n" +
		"As a next step, we would like to invite you to fill in our mentor application form at " +
		"https://goo.gl/forms/ft1mzyiQbJkazhkQ2\n\n" +
		"If you have any questions, feel free to reach out to us directly at apply.therightfit@gmail.com.\n\n" +
		"Thanks,\n\ntheRightFit Team"
	return m.send(ctx, "application", "", email, "theRightFit Mentor Application", text)
}

func (m *BrevoMailer) MentorVerification(ctx context.Context, name, email, code string) error {
	text := "Dear " + name + ",\n\n" +
		"Congratulations! You have been approved to become a mentor for theRightFit.\n\n" +
		"Your unique verification code is: " + code + "\n\n" +
		"Please enter this in the application verification screen to get started.\n\n" +
		"If you have any questions, feel free to reach out to us directly at apply.therightfit@gmail.com.\n\n" +
		"Thanks,\n\ntheRightFit Team"
	return m.send(ctx, "verification", name, email, "theRightFit Mentor Application Approval", text)
}

func (m *BrevoMailer) RequestAccepted(ctx context.Context, mentorName, menteeName, menteeEmail string) error {
	text := "Dear " + menteeName + ",\n\n" +
		mentorName + " has accepted your coaching request on theRightFit.\n\n" +
		"Your mentor will start assigning workouts shortly.\n\n" +
		"Thanks,\n\ntheRightFit Team"
	return m.send(ctx, "request_accepted", menteeName, menteeEmail, "Your theRightFit coaching request was accepted", text)
}

// NoopMailer drops every email. Used when no Brevo key is configured and in
// tests.
type NoopMailer struct{}

func (NoopMailer) MentorApplication(ctx context.Context, email string) error { return nil }
func (NoopMailer) MentorVerification(ctx context.Context, name, email, code string) error {
	return nil
}
func (NoopMailer) RequestAccepted(ctx context.Context, mentorName, menteeName, menteeEmail string) error {
	return nil
}
