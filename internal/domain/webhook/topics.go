package webhook

import "time"

// Compliance topics the platform delivers under data-protection law,
// plus the uninstall topic every app must subscribe to.
const (
	TopicCustomersDataRequest = "customers/data_request"
	TopicCustomersRedact      = "customers/redact"
	TopicShopRedact           = "shop/redact"
	TopicAppUninstalled       = "app/uninstalled"
)

// ComplianceDeadline is the regulatory window for completing a compliance
// request. The audit trail records receivedAt + ComplianceDeadline so SLA
// adherence can be verified after the fact.
const ComplianceDeadline = 30 * 24 * time.Hour

var complianceTopics = map[string]bool{
	TopicCustomersDataRequest: true,
	TopicCustomersRedact:      true,
	TopicShopRedact:           true,
}

// IsComplianceTopic reports whether the topic carries a data-protection
// obligation. The set is closed; anything else is an ordinary webhook.
func IsComplianceTopic(topic string) bool {
	return complianceTopics[topic]
}

// IsMandatoryTopic reports whether the app must handle the topic. This is
// the compliance set plus app/uninstalled.
func IsMandatoryTopic(topic string) bool {
	return topic == TopicAppUninstalled || IsComplianceTopic(topic)
}

// IsErasureTopic reports whether the topic demands deletion of personal data
func IsErasureTopic(topic string) bool {
	return topic == TopicCustomersRedact || topic == TopicShopRedact
}

// DeadlineFor returns the compliance deadline for a delivery received at the
// given time, or nil for topics without a regulatory deadline.
func DeadlineFor(topic string, receivedAt time.Time) *time.Time {
	if !IsComplianceTopic(topic) {
		return nil
	}
	d := receivedAt.Add(ComplianceDeadline)
	return &d
}
