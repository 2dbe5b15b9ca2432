// Package events mirrors finalized records onto NATS subjects so other
// services can react to captured leads and enrollments. Publication is
// best-effort, like the lead sink: failures are logged and dropped.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectLeadCaptured   = "fitgym.lead.captured"
	SubjectMemberEnrolled = "fitgym.member.enrolled"
)

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish sends the payload as JSON. Errors are logged, never returned;
// event publication must not affect the conversation path.
func (p *Publisher) Publish(subject string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("publish event", "subject", subject, "error", err)
	}
}

func (p *Publisher) Close() {
	p.conn.Close()
}
