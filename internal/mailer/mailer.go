// Package mailer delivers best-effort account notifications (welcome and
// cancelation messages) through an external HTTP mail API.
//
// Delivery is fire-and-forget: messages are queued and sent by a background
// worker, and a failed or dropped send never affects the operation that
// triggered it.
package mailer

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/vlebedev/go-task-manager/internal/config"
	"github.com/vlebedev/go-task-manager/internal/logger"
)

// Mailer is the outbound notification boundary consumed by the service layer.
type Mailer interface {
	// SendWelcome queues a welcome message for a newly registered user.
	SendWelcome(email, name string)

	// SendCancelation queues a goodbye message for a deleted account.
	SendCancelation(email, name string)

	// Run consumes the queue until Shutdown is called. Intended to be
	// started as a goroutine at application startup.
	Run()

	// Shutdown stops accepting new messages and lets Run drain the queue.
	Shutdown()
}

//go:generate mockgen -source=mailer.go -destination=../mock/mailer_mock.go -package=mock

type message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// httpMailer posts messages to the configured mail API with resty.
type httpMailer struct {
	client *resty.Client
	from   string
	queue  chan message
	logger *logger.Logger
}

// queueSize bounds the number of pending notifications. When the queue is
// full new messages are dropped, consistent with best-effort semantics.
const queueSize = 64

// NewMailer constructs a Mailer for the given configuration. When the mailer
// configuration is incomplete (no base URL), notifications are disabled and a
// no-op implementation is returned instead of an error.
func NewMailer(cfg config.Mailer, log *logger.Logger) Mailer {
	if cfg.BaseURL == "" {
		log.Warn().Msg("mailer is not configured, notifications disabled")
		return &nopMailer{}
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &httpMailer{
		client: client,
		from:   cfg.From,
		queue:  make(chan message, queueSize),
		logger: log,
	}
}

func (m *httpMailer) SendWelcome(email, name string) {
	m.enqueue(message{
		To:      email,
		From:    m.from,
		Subject: "Welcome aboard!",
		Body:    fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
	})
}

func (m *httpMailer) SendCancelation(email, name string) {
	m.enqueue(message{
		To:      email,
		From:    m.from,
		Subject: "Sorry to see you go",
		Body:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
	})
}

func (m *httpMailer) enqueue(msg message) {
	select {
	case m.queue <- msg:
	default:
		// best-effort: a full queue drops the notification
		m.logger.Warn().Str("to", msg.To).Msg("mail queue is full, dropping notification")
	}
}

// Run consumes queued messages and posts them to the mail API until the
// queue channel is closed by Shutdown.
func (m *httpMailer) Run() {
	for msg := range m.queue {
		resp, err := m.client.R().
			SetBody(msg).
			Post("/messages")
		if err != nil {
			m.logger.Err(err).Str("to", msg.To).Msg("error sending notification")
			continue
		}
		if resp.IsError() {
			m.logger.Error().
				Int("status", resp.StatusCode()).
				Str("to", msg.To).
				Msg("mail API rejected notification")
			continue
		}

		m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("notification sent")
	}
}

func (m *httpMailer) Shutdown() {
	close(m.queue)
}

// nopMailer is used when the mail API is not configured.
type nopMailer struct{}

func (*nopMailer) SendWelcome(string, string)     {}
func (*nopMailer) SendCancelation(string, string) {}
func (*nopMailer) Run()                           {}
func (*nopMailer) Shutdown()                      {}
