package models

import (
	"time"

	"github.com/shopassist/backend/internal/domain/webhook"
)

// WebhookAuditModel is the persistence model for the AuditEntry domain entity.
type WebhookAuditModel struct {
	BaseModel
	Shop       string              `gorm:"type:varchar(255);not null;index"`
	Topic      string              `gorm:"type:varchar(100);not null;index"`
	WebhookID  string              `gorm:"type:varchar(64)"`
	Status     webhook.AuditStatus `gorm:"type:varchar(20);not null;index"`
	ErrorCode  string              `gorm:"type:varchar(50)"`
	Detail     string              `gorm:"type:text"`
	CustomerID string              `gorm:"type:varchar(64)"`
	Deadline   *time.Time          `gorm:"index"`
}

// TableName returns the table name for GORM
func (WebhookAuditModel) TableName() string {
	return "webhook_audit_log"
}

// ToDomain converts the persistence model to a domain AuditEntry entity.
func (m *WebhookAuditModel) ToDomain() *webhook.AuditEntry {
	return &webhook.AuditEntry{
		BaseEntity: m.BaseModel.ToDomain(),
		Shop:       m.Shop,
		Topic:      m.Topic,
		WebhookID:  m.WebhookID,
		Status:     m.Status,
		ErrorCode:  m.ErrorCode,
		Detail:     m.Detail,
		CustomerID: m.CustomerID,
		Deadline:   m.Deadline,
	}
}

// FromDomain populates the persistence model from a domain AuditEntry entity.
func (m *WebhookAuditModel) FromDomain(e *webhook.AuditEntry) {
	m.SetBase(e.BaseEntity)
	m.Shop = e.Shop
	m.Topic = e.Topic
	m.WebhookID = e.WebhookID
	m.Status = e.Status
	m.ErrorCode = e.ErrorCode
	m.Detail = e.Detail
	m.CustomerID = e.CustomerID
	m.Deadline = e.Deadline
}
