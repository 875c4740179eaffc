package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/conversation"
)

// UserProfileModel is the persistence model for the UserProfile domain entity.
type UserProfileModel struct {
	BaseModel
	Shop       string `gorm:"type:varchar(255);not null;index:idx_profile_shop_customer,priority:1"`
	CustomerID string `gorm:"type:varchar(64);index:idx_profile_shop_customer,priority:2"`
	SessionID  string `gorm:"type:varchar(64);index"`
	Email      string `gorm:"type:varchar(200)"`
	Name       string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts the persistence model to a domain UserProfile entity.
func (m *UserProfileModel) ToDomain() *conversation.UserProfile {
	return &conversation.UserProfile{
		BaseEntity: m.BaseModel.ToDomain(),
		Shop:       m.Shop,
		CustomerID: m.CustomerID,
		SessionID:  m.SessionID,
		Email:      m.Email,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain UserProfile entity.
func (m *UserProfileModel) FromDomain(p *conversation.UserProfile) {
	m.SetBase(p.BaseEntity)
	m.Shop = p.Shop
	m.CustomerID = p.CustomerID
	m.SessionID = p.SessionID
	m.Email = p.Email
	m.Name = p.Name
}

// ChatSessionModel is the persistence model for the ChatSession domain entity.
type ChatSessionModel struct {
	BaseModel
	UserProfileID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Shop          string                     `gorm:"type:varchar(255);not null;index"`
	Status        conversation.SessionStatus `gorm:"type:varchar(20);not null;default:'open'"`
	ClosedAt      *time.Time
}

// TableName returns the table name for GORM
func (ChatSessionModel) TableName() string {
	return "chat_sessions"
}

// ToDomain converts the persistence model to a domain ChatSession entity.
func (m *ChatSessionModel) ToDomain() *conversation.ChatSession {
	return &conversation.ChatSession{
		BaseEntity:    m.BaseModel.ToDomain(),
		UserProfileID: m.UserProfileID,
		Shop:          m.Shop,
		Status:        m.Status,
		ClosedAt:      m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain ChatSession entity.
func (m *ChatSessionModel) FromDomain(s *conversation.ChatSession) {
	m.SetBase(s.BaseEntity)
	m.UserProfileID = s.UserProfileID
	m.Shop = s.Shop
	m.Status = s.Status
	m.ClosedAt = s.ClosedAt
}

// ChatMessageModel is the persistence model for the ChatMessage domain entity.
type ChatMessageModel struct {
	BaseModel
	SessionID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Role      conversation.MessageRole `gorm:"type:varchar(20);not null"`
	Content   string                   `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts the persistence model to a domain ChatMessage entity.
func (m *ChatMessageModel) ToDomain() *conversation.ChatMessage {
	return &conversation.ChatMessage{
		BaseEntity: m.BaseModel.ToDomain(),
		SessionID:  m.SessionID,
		Role:       m.Role,
		Content:    m.Content,
	}
}

// FromDomain populates the persistence model from a domain ChatMessage entity.
func (m *ChatMessageModel) FromDomain(msg *conversation.ChatMessage) {
	m.SetBase(msg.BaseEntity)
	m.SessionID = msg.SessionID
	m.Role = msg.Role
	m.Content = msg.Content
}
