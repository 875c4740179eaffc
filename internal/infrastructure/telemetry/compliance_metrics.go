package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys used by compliance metrics.
var (
	AttrTopic     = attribute.Key("webhook.topic")
	AttrOutcome   = attribute.Key("webhook.outcome")
	AttrErrorCode = attribute.Key("webhook.error_code")
)

// ComplianceMetrics records webhook pipeline outcomes: how many deliveries
// were accepted, rejected or failed, and how long redactions take. Shop
// domains are deliberately not used as attributes to keep cardinality flat.
type ComplianceMetrics struct {
	deliveries       *Counter
	redactedProfiles *Counter
	redactionTime    *Histogram
}

// NewComplianceMetrics creates the compliance metric instruments.
func NewComplianceMetrics(meter metric.Meter) (*ComplianceMetrics, error) {
	deliveries, err := NewCounter(meter,
		"webhook_deliveries_total",
		"Webhook deliveries by topic and outcome",
		"{delivery}")
	if err != nil {
		return nil, err
	}

	redactedProfiles, err := NewCounter(meter,
		"redaction_profiles_deleted_total",
		"User profiles removed by compliance redactions",
		"{profile}")
	if err != nil {
		return nil, err
	}

	redactionTime, err := NewHistogram(meter,
		"redaction_duration_seconds",
		"Wall time of redaction transactions",
		"s")
	if err != nil {
		return nil, err
	}

	return &ComplianceMetrics{
		deliveries:       deliveries,
		redactedProfiles: redactedProfiles,
		redactionTime:    redactionTime,
	}, nil
}

// RecordDelivery counts one processed delivery. outcome is one of
// "accepted", "rejected" or "failed"; errorCode is empty for accepted
// deliveries.
func (m *ComplianceMetrics) RecordDelivery(ctx context.Context, topic, outcome, errorCode string) {
	attrs := []attribute.KeyValue{
		AttrTopic.String(topic),
		AttrOutcome.String(outcome),
	}
	if errorCode != "" {
		attrs = append(attrs, AttrErrorCode.String(errorCode))
	}
	m.deliveries.Inc(ctx, attrs...)
}

// RecordRedaction counts deleted profiles and the transaction duration.
func (m *ComplianceMetrics) RecordRedaction(ctx context.Context, topic string, profilesDeleted int64, elapsed time.Duration) {
	m.redactedProfiles.Add(ctx, profilesDeleted, AttrTopic.String(topic))
	m.redactionTime.RecordDuration(ctx, elapsed, AttrTopic.String(topic))
}
