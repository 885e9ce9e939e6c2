package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/troyes-analytics/effectif/internal/acquire"
)

// refreshStream receives one event per completed acquisition run.
const refreshStream = "effectif:squad:events"

// refreshEvent is the wire shape appended to the stream.
type refreshEvent struct {
	Source      string `json:"source"`
	PlayerCount int    `json:"player_count"`
	Attempts    int    `json:"attempts"`
	AcquiredAt  string `json:"acquired_at"`
}

// StreamPublisher appends acquisition events to a Redis stream for
// downstream consumers (dashboards, alerting).
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher connects to Redis and verifies the connection.
func NewStreamPublisher(redisURL string) (*StreamPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &StreamPublisher{client: client}, nil
}

// Close closes the Redis connection.
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// PublishRefresh appends one event describing the completed run.
func (p *StreamPublisher) PublishRefresh(ctx context.Context, result *acquire.Result) error {
	event := refreshEvent{
		Source:      string(result.Source),
		PlayerCount: result.Dataset.Len(),
		Attempts:    result.Attempts,
		AcquiredAt:  result.AcquiredAt.Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: refreshStream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
