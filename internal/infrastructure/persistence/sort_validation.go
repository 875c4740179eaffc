package persistence

import (
	"strings"
)

// AuditSortFields are the columns the audit trail listing may sort by.
// Sort input reaches an ORDER BY clause verbatim, so anything outside
// this set falls back to the default.
var AuditSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"topic":      true,
	"status":     true,
	"deadline":   true,
}

// ValidateSortOrder normalizes a direction to ASC or DESC, defaulting
// to DESC so listings show the newest entries first.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is in allowedFields,
// otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}
