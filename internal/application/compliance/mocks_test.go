package compliance

import (
	"context"
	"time"

	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/shop"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/stretchr/testify/mock"
)

// MockRedactionRepository is a mock implementation of conversation.RedactionRepository
type MockRedactionRepository struct {
	mock.Mock
}

func (m *MockRedactionRepository) DeleteCustomerData(ctx context.Context, shop, customerID string) (conversation.RedactionResult, error) {
	args := m.Called(ctx, shop, customerID)
	return args.Get(0).(conversation.RedactionResult), args.Error(1)
}

func (m *MockRedactionRepository) DeleteShopData(ctx context.Context, shop string) (conversation.RedactionResult, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(conversation.RedactionResult), args.Error(1)
}

// MockAuditSink is a mock implementation of webhook.AuditSink that keeps
// every recorded entry for assertions
type MockAuditSink struct {
	mock.Mock
	Entries []*webhook.AuditEntry
}

func (m *MockAuditSink) Record(ctx context.Context, entry *webhook.AuditEntry) error {
	m.Entries = append(m.Entries, entry)
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of shop.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByDomain(ctx context.Context, domain string) (*shop.Account, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *shop.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockReplayStore is a mock implementation of shared.DeliveryReplayStore
type MockReplayStore struct {
	mock.Mock
}

func (m *MockReplayStore) MarkSeen(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, deliveryID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockReplayStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
