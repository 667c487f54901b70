// Package events publishes change notifications for parsed raids on NATS so
// sibling processes (scheduler, dashboard) can react to new records.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"raid-parser/internal/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	sourceName     = "raid-parser"
	envelopeSchema = "1.0.0"
)

// Envelope is the wire shape consumed by the messaging subsystem.
type Envelope struct {
	Event    Event    `json:"event"`
	Metadata Metadata `json:"metadata"`
}

// Event is the notification payload.
type Event struct {
	Type      string                 `json:"type"`
	EntityID  string                 `json:"entityId"`
	ServerID  string                 `json:"serverId"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Metadata identifies the emitting process and envelope version.
type Metadata struct {
	Source  string `json:"source"`
	Version string `json:"version"`
}

// Publisher wraps a NATS connection.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewPublisher connects to NATS. Subject defaults to "raids.events".
func NewPublisher(url, subject string, logger *zap.Logger) (*Publisher, error) {
	if subject == "" {
		subject = "raids.events"
	}
	nc, err := nats.Connect(url,
		nats.Name(sourceName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Event publisher connected", zap.String("url", url), zap.String("subject", subject))
	return &Publisher{nc: nc, subject: subject, logger: logger}, nil
}

// PublishRaidCreated emits a raid.created notification for a freshly parsed
// record.
func (p *Publisher) PublishRaidCreated(record *models.ParsedRaidRecord, serverID string) error {
	envelope := Envelope{
		Event: Event{
			Type:      "raid.created",
			EntityID:  record.ID,
			ServerID:  serverID,
			Timestamp: time.Now().UTC(),
			Data:      map[string]interface{}{"raid": record},
		},
		Metadata: Metadata{Source: sourceName, Version: envelopeSchema},
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.nc.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	p.logger.Debug("Published raid.created",
		zap.String("entity_id", record.ID),
		zap.String("server_id", serverID))
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("Failed to drain NATS connection", zap.Error(err))
	}
}
