// Package events publishes site lifecycle events (export finished,
// site published, site unpublished) to NATS JetStream so downstream
// consumers (edge cache invalidation, analytics rollups) can react.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Event types carried on the stream.
const (
	TypeExportCompleted = "export.completed"
	TypeSitePublished   = "site.published"
	TypeSiteUnpublished = "site.unpublished"
)

// Event is the wire shape of one lifecycle event.
type Event struct {
	Type         string    `json:"type"`
	ProjectID    string    `json:"project_id"`
	Subdomain    string    `json:"subdomain,omitempty"`
	URL          string    `json:"url,omitempty"`
	ArchiveBytes int64     `json:"archive_bytes,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Config holds the NATS connection settings.
type Config struct {
	Enabled bool
	URL     string
	Subject string
}

// Publisher publishes lifecycle events. A nil Publisher is valid and
// drops events, so callers never need to branch on whether eventing is
// configured.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and prepares the JetStream context.
func NewPublisher(cfg Config) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = "bentoforge.sites"
	}

	slog.Info("Event publisher connected", "url", cfg.URL, "subject", subject)
	return &Publisher{conn: conn, js: js, subject: subject}, nil
}

// Publish sends one event. Failures are logged, not returned: eventing
// is best-effort and must never fail an export or publish.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}

	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to marshal lifecycle event", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		slog.Warn("Failed to publish lifecycle event", "type", event.Type, "error", err)
		return
	}

	slog.Debug("Published lifecycle event", "type", event.Type, "project", event.ProjectID)
}

// Close closes the NATS connection. Safe on nil.
func (p *Publisher) Close() error {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
	return nil
}
