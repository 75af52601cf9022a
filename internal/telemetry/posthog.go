package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/posthog/posthog-go"
)

const DefaultHost = "https://us.i.posthog.com"

type Config struct {
	APIKey        string
	Host          string
	FlushInterval time.Duration
}

// PostHog sends events to a PostHog project. Events are batched by the client
// and flushed on Close.
type PostHog struct {
	client     posthog.Client
	distinctID string
	log        logging.Logger
}

var (
	newPostHogClient = posthog.NewWithConfig
	now              = time.Now
)

// NewPostHog returns a sink reporting as distinctID.
func NewPostHog(cfg Config, distinctID string, log logging.Logger) (*PostHog, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("posthog api key is empty")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}

	client, err := newPostHogClient(cfg.APIKey, posthog.Config{
		Endpoint:  cfg.Host,
		BatchSize: 50,
		Interval:  cfg.FlushInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create posthog client: %w", err)
	}

	return &PostHog{client: client, distinctID: distinctID, log: log}, nil
}

func (p *PostHog) Capture(ctx context.Context, event string, props map[string]any) {
	properties := posthog.NewProperties()
	for k, v := range props {
		properties.Set(k, v)
	}

	err := p.client.Enqueue(posthog.Capture{
		DistinctId: p.distinctID,
		Event:      event,
		Properties: properties,
		Timestamp:  now(),
	})
	if err != nil {
		p.log.Warn(ctx, "failed to enqueue telemetry event", "event", event, "error", err)
	}
}

// Close flushes pending events.
func (p *PostHog) Close() error {
	return p.client.Close()
}
