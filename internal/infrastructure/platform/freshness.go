package platform

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultFreshnessWindow is the maximum age a webhook delivery may have
// before it is treated as a possible replay.
const DefaultFreshnessWindow = 5 * time.Minute

// FreshnessGuard rejects webhook deliveries whose identifier is older than
// the allowed window. The platform issues delivery identifiers as decimal
// Unix timestamps, so the identifier doubles as the delivery time.
type FreshnessGuard struct {
	maxAge time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewFreshnessGuard creates a guard with the given window. A zero or
// negative window falls back to DefaultFreshnessWindow.
func NewFreshnessGuard(maxAge time.Duration, logger *zap.Logger) *FreshnessGuard {
	if maxAge <= 0 {
		maxAge = DefaultFreshnessWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FreshnessGuard{
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.Named("freshness"),
	}
}

// IsFresh reports whether the delivery identifier parses as a Unix
// timestamp no older than the window. Unparsable identifiers are treated
// as stale (fail closed). Identifiers from the near future pass, since
// clock skew between the platform and this host is expected.
func (g *FreshnessGuard) IsFresh(webhookID string) bool {
	issued, err := strconv.ParseInt(webhookID, 10, 64)
	if err != nil {
		g.logger.Warn("webhook id is not a timestamp", zap.String("webhook_id", webhookID))
		return false
	}

	age := g.now().Sub(time.Unix(issued, 0))
	if age > g.maxAge {
		g.logger.Warn("stale webhook delivery",
			zap.String("webhook_id", webhookID),
			zap.Duration("age", age),
			zap.Duration("max_age", g.maxAge),
		)
		return false
	}
	return true
}

// Window returns the configured freshness window. Replay stores use the
// same duration as their entry TTL.
func (g *FreshnessGuard) Window() time.Duration {
	return g.maxAge
}
