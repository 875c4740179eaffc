package shared

import (
	"context"
	"time"
)

// DeliveryReplayStore remembers webhook delivery IDs that have already been
// accepted, so a captured delivery replayed inside the freshness window can
// be rejected. Entries expire after a TTL equal to that window.
type DeliveryReplayStore interface {
	// MarkSeen records a delivery ID with the given TTL.
	// Returns true if the ID was newly recorded, false if it was already present.
	MarkSeen(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)

	// Close releases any resources held by the store
	Close() error
}

// ReplayConfig holds configuration for delivery replay protection
type ReplayConfig struct {
	// TTL is how long an accepted delivery ID is remembered.
	// It should match the freshness window of the webhook pipeline.
	TTL time.Duration

	// Enabled determines whether replay checking is performed
	Enabled bool
}

// DefaultReplayConfig returns the default replay protection configuration
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		TTL:     5 * time.Minute,
		Enabled: true,
	}
}
