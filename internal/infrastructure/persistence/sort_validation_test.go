package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string defaults to DESC", "", "DESC"},
		{"ASC uppercase", "ASC", "ASC"},
		{"asc lowercase", "asc", "ASC"},
		{"DESC uppercase", "DESC", "DESC"},
		{"whitespace around asc", "  asc  ", "ASC"},
		{"invalid value defaults to DESC", "INVALID", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE chat_messages;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"allowed field passes", "topic", "topic"},
		{"allowed field with whitespace passes", "  status  ", "status"},
		{"unknown field returns default", "customer_id", "created_at"},
		{"case sensitive, uppercase rejected", "TOPIC", "created_at"},
		{"injection attempt returns default", "id; DROP TABLE chat_messages;--", "created_at"},
		{"quoted injection returns default", "topic'--", "created_at"},
		{"subquery injection returns default", "id, (SELECT secret FROM shop_accounts)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, AuditSortFields, "created_at"))
		})
	}
}

func TestAuditSortFields(t *testing.T) {
	for _, field := range []string{"id", "created_at", "updated_at", "topic", "status", "deadline"} {
		assert.True(t, AuditSortFields[field], "expected %q to be sortable", field)
	}
	assert.False(t, AuditSortFields["customer_id"], "customer_id must not be sortable")
}
