// Package conversation records chat activity: it maintains the
// profile/session/message graph the compliance pipeline later redacts, and
// feeds the de-identified usage aggregates.
package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/shopassist/backend/internal/domain/analytics"
	domain "github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles conversation recording
type Service struct {
	profiles  domain.UserProfileRepository
	sessions  domain.ChatSessionRepository
	messages  domain.ChatMessageRepository
	snapshots analytics.UsageSnapshotRepository
	logger    *zap.Logger
}

// NewService creates a new conversation Service. snapshots may be nil.
func NewService(
	profiles domain.UserProfileRepository,
	sessions domain.ChatSessionRepository,
	messages domain.ChatMessageRepository,
	snapshots analytics.UsageSnapshotRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:  profiles,
		sessions:  sessions,
		messages:  messages,
		snapshots: snapshots,
		logger:    logger.Named("conversation"),
	}
}

// RecordMessageInput is one turn to record
type RecordMessageInput struct {
	Shop       string
	CustomerID string
	SessionID  string
	Role       domain.MessageRole
	Content    string
}

// RecordMessageResult reports where the turn landed
type RecordMessageResult struct {
	ProfileID  string
	SessionID  string
	MessageID  string
	NewSession bool
}

// RecordMessage stores one turn, creating the profile and session on first
// contact. New sessions bump the day's conversation aggregate; every turn
// bumps the message aggregate.
func (s *Service) RecordMessage(ctx context.Context, input RecordMessageInput) (*RecordMessageResult, error) {
	profile, err := s.findOrCreateProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	newSession := false
	session, err := s.sessions.FindOpenByProfile(ctx, profile.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		session = domain.NewChatSession(profile)
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		newSession = true
	}

	message, err := domain.NewChatMessage(session.ID, input.Role, input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Append(ctx, message); err != nil {
		return nil, err
	}

	s.bumpAggregates(ctx, input.Shop, newSession)

	return &RecordMessageResult{
		ProfileID:  profile.ID.String(),
		SessionID:  session.ID.String(),
		MessageID:  message.ID.String(),
		NewSession: newSession,
	}, nil
}

// CloseSession ends a shopper's open session, if one exists
func (s *Service) CloseSession(ctx context.Context, shop, sessionID string) error {
	profile, err := s.profiles.FindByShopAndSession(ctx, shop, sessionID)
	if err != nil {
		return err
	}
	session, err := s.sessions.FindOpenByProfile(ctx, profile.ID)
	if err != nil {
		return err
	}
	session.Close()
	return s.sessions.Save(ctx, session)
}

// UsageByShop returns the shop's daily aggregates for the inclusive day
// range, oldest first. Days are normalized to midnight UTC so callers can
// pass arbitrary timestamps.
func (s *Service) UsageByShop(ctx context.Context, shop string, from, to time.Time) ([]analytics.UsageSnapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	return s.snapshots.ListByShop(ctx, shop, from, to)
}

func (s *Service) findOrCreateProfile(ctx context.Context, input RecordMessageInput) (*domain.UserProfile, error) {
	var (
		profile *domain.UserProfile
		err     error
	)
	if input.CustomerID != "" {
		profile, err = s.profiles.FindByShopAndCustomer(ctx, input.Shop, input.CustomerID)
	} else {
		profile, err = s.profiles.FindByShopAndSession(ctx, input.Shop, input.SessionID)
	}
	if err == nil {
		// Attach the customer id when a known anonymous shopper logs in
		if input.CustomerID != "" && profile.CustomerID == "" {
			profile.Identify(input.CustomerID)
			if err := s.profiles.Save(ctx, profile); err != nil {
				return nil, err
			}
		}
		return profile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	profile, err = domain.NewUserProfile(input.Shop, input.CustomerID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// bumpAggregates updates the day's counters. Aggregate failures are logged
// and swallowed; losing a counter tick must not fail message recording.
func (s *Service) bumpAggregates(ctx context.Context, shop string, newSession bool) {
	if s.snapshots == nil {
		return
	}
	var conversations int64
	if newSession {
		conversations = 1
	}
	if err := s.snapshots.Increment(ctx, shop, time.Now().UTC(), conversations, 1); err != nil {
		s.logger.Warn("failed to update usage aggregates",
			zap.String("shop", shop),
			zap.Error(err),
		)
	}
}
