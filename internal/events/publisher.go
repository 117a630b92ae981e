// Package events publishes recruiter events on Redis pub/sub so the gateway
// can forward them over SSE.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope wraps every published payload.
type Envelope struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Payload   any       `json:"payload"`
	Published time.Time `json:"publishedAt"`
}

// Publisher sends events on a Redis client.
type Publisher struct {
	rdb redis.UniversalClient
	now func() time.Time
}

// NewPublisher returns a Publisher backed by rdb.
func NewPublisher(rdb redis.UniversalClient) *Publisher {
	return &Publisher{rdb: rdb, now: time.Now}
}

// Encode builds the JSON message sent for payload on channel.
func Encode(channel string, payload any, at time.Time) ([]byte, error) {
	msg, err := json.Marshal(Envelope{
		ID:        uuid.NewString(),
		Channel:   channel,
		Payload:   payload,
		Published: at.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", channel, err)
	}
	return msg, nil
}

// Publish encodes payload and publishes it on channel.
func (p *Publisher) Publish(ctx context.Context, channel string, payload any) error {
	msg, err := Encode(channel, payload, p.now())
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, channel, msg).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
