package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type EmailSender interface {
	Send(ctx context.Context, e Email) (string, error)
}

// ResendClient talks to the Resend transactional email API.
type ResendClient struct {
	http *resty.Client
}

func NewResendClient(baseURL, apiKey string, timeout time.Duration) *ResendClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &ResendClient{http: c}
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (c *ResendClient) Send(ctx context.Context, e Email) (string, error) {
	var out resendResponse
	var apiErr resendError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(e).
		SetResult(&out).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("%w: send email: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: resend returned %d: %s", domain.ErrUpstream, resp.StatusCode(), apiErr.Message)
	}
	return out.ID, nil
}

// LogSender stands in for the email API when no key is configured.
type LogSender struct {
	Log logrus.FieldLogger
}

func (s LogSender) Send(_ context.Context, e Email) (string, error) {
	s.Log.WithFields(logrus.Fields{"to": e.To, "subject": e.Subject}).Info("email not sent: RESEND_API_KEY unset")
	return "", nil
}

// MailDispatcher renders a notification and sends it synchronously.
type MailDispatcher struct {
	Sender EmailSender
	From   string
	Log    logrus.FieldLogger
}

func (m *MailDispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	subject, html, err := RenderNotification(n)
	if err != nil {
		return err
	}
	id, err := m.Sender.Send(ctx, Email{
		From:    m.From,
		To:      n.To,
		Subject: subject,
		HTML:    html,
		ReplyTo: n.ReplyTo,
	})
	if err != nil {
		return err
	}
	m.Log.WithFields(logrus.Fields{"template": n.Template, "email_id": id}).Info("email sent")
	return nil
}
