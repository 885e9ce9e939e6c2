package acquire

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// Parser runs one complete fetch-and-extract attempt against the source.
type Parser interface {
	Parse(ctx context.Context) (*squad.Dataset, error)
}

// Config bounds the acquisition loop and its quality gate.
type Config struct {
	MaxAttempts          int
	RetryDelay           time.Duration
	MinPlayers           int
	MinValidAgeFraction  float64
	MinDistinctPositions int
}

// DefaultConfig returns the standard acquisition policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:          3,
		RetryDelay:           2 * time.Second,
		MinPlayers:           10,
		MinValidAgeFraction:  0.8,
		MinDistinctPositions: 3,
	}
}

// Result is one finished acquisition run. LastError is diagnostic only;
// the dataset is always usable.
type Result struct {
	Dataset    *squad.Dataset `json:"dataset"`
	Source     squad.Source   `json:"source"`
	Attempts   int            `json:"attempts"`
	AcquiredAt time.Time      `json:"acquired_at"`
	LastError  string         `json:"last_error,omitempty"`
}

// state is the controller's position in the acquisition loop.
type state int

const (
	stateAttempting state = iota
	stateRetrying
	stateValidated
	stateExhausted
)

// Controller drives the bounded retry-and-validate loop around the parser.
// It guarantees its caller a dataset: live when an attempt validates, the
// fixed fallback roster when every attempt is exhausted.
type Controller struct {
	parser Parser
	config Config
}

// New creates a controller; zero-valued config fields take their defaults.
func New(parser Parser, config Config) *Controller {
	defaults := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.MinPlayers <= 0 {
		config.MinPlayers = defaults.MinPlayers
	}
	if config.MinValidAgeFraction <= 0 {
		config.MinValidAgeFraction = defaults.MinValidAgeFraction
	}
	if config.MinDistinctPositions <= 0 {
		config.MinDistinctPositions = defaults.MinDistinctPositions
	}
	return &Controller{parser: parser, config: config}
}

// Run walks the attempting → validated | retrying | exhausted loop.
// Attempts are strictly sequential, each a fresh fetch and parse. Run never
// returns an error: exhaustion installs the fallback roster whole, never
// mixed with partial live rows.
func (c *Controller) Run(ctx context.Context) *Result {
	var (
		dataset *squad.Dataset
		lastErr error
	)
	attempt := 0

	for current := stateAttempting; ; {
		switch current {
		case stateAttempting:
			attempt++
			log.Printf("[acquire] attempt %d/%d", attempt, c.config.MaxAttempts)

			parsed, err := c.parser.Parse(ctx)
			if err == nil {
				err = c.validate(parsed)
			}
			if err == nil {
				dataset = parsed
				current = stateValidated
				break
			}

			lastErr = err
			log.Printf("[acquire]   ⚠️  attempt %d/%d failed: %v", attempt, c.config.MaxAttempts, err)
			if attempt >= c.config.MaxAttempts {
				current = stateExhausted
			} else {
				current = stateRetrying
			}

		case stateRetrying:
			log.Printf("[acquire]   retrying in %v...", c.config.RetryDelay)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				current = stateExhausted
			case <-time.After(c.config.RetryDelay):
				current = stateAttempting
			}

		case stateValidated:
			log.Printf("[acquire] ✓ live dataset validated: %d players in %d attempt(s)", dataset.Len(), attempt)
			return &Result{
				Dataset:    dataset,
				Source:     squad.SourceLive,
				Attempts:   attempt,
				AcquiredAt: time.Now().UTC(),
			}

		case stateExhausted:
			log.Printf("[acquire] ❌ all %d attempts failed, serving fallback roster: %v", attempt, lastErr)
			reason := ""
			if lastErr != nil {
				reason = lastErr.Error()
			}
			return &Result{
				Dataset:    squad.FallbackRoster(),
				Source:     squad.SourceFallback,
				Attempts:   attempt,
				AcquiredAt: time.Now().UTC(),
				LastError:  reason,
			}
		}
	}
}

// validate applies the attempt-local quality gate. The parser already
// enforces the size floor, but the gate re-checks it so it stands on its
// own against any Parser implementation.
func (c *Controller) validate(d *squad.Dataset) error {
	if n := d.Len(); n < c.config.MinPlayers {
		return fmt.Errorf("only %d records extracted, need %d", n, c.config.MinPlayers)
	}
	if f := d.ValidAgeFraction(); f < c.config.MinValidAgeFraction {
		return fmt.Errorf("valid-age fraction %.2f below %.2f", f, c.config.MinValidAgeFraction)
	}
	if n := d.DistinctKnownPositions(); n < c.config.MinDistinctPositions {
		return fmt.Errorf("only %d distinct known positions, need %d", n, c.config.MinDistinctPositions)
	}
	return nil
}
