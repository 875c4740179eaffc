package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRedactionService() (*RedactionService, *MockRedactionRepository, *MockAuditSink) {
	redactions := &MockRedactionRepository{}
	audit := &MockAuditSink{}
	svc := NewRedactionService(redactions, audit, nil, nil)
	return svc, redactions, audit
}

func TestRedactCustomer_Success(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()

	redactions.On("DeleteCustomerData", mock.Anything, "demo.example", "42").
		Return(conversation.RedactionResult{ProfilesDeleted: 1, SessionsDeleted: 2, MessagesDeleted: 7}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000",
		CustomerIdentity{CustomerID: "42"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ProfilesDeleted)
	redactions.AssertExpectations(t)

	require.Len(t, audit.Entries, 1)
	assert.Equal(t, webhook.AuditStatusCompleted, audit.Entries[0].Status)
	assert.Equal(t, "42", audit.Entries[0].CustomerID)
	require.NotNil(t, audit.Entries[0].Deadline, "compliance topics carry a deadline")
}

func TestRedactCustomer_IdempotentZeroMatches(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()

	redactions.On("DeleteCustomerData", mock.Anything, "demo.example", "42").
		Return(conversation.RedactionResult{}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000",
		CustomerIdentity{CustomerID: "42"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.ProfilesDeleted)
}

func TestRedactCustomer_IdentityMissing(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000", CustomerIdentity{})

	assert.Equal(t, webhook.ErrIdentityMissing, err)
	redactions.AssertNotCalled(t, "DeleteCustomerData")

	require.Len(t, audit.Entries, 1)
	assert.Equal(t, webhook.AuditStatusFailed, audit.Entries[0].Status)
	assert.Equal(t, "ERR_IDENTITY_MISSING", audit.Entries[0].ErrorCode)
}

func TestRedactCustomer_EmailOnlyIsZeroDeletionSuccess(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000",
		CustomerIdentity{Email: "shopper@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.ProfilesDeleted)
	redactions.AssertNotCalled(t, "DeleteCustomerData")
}

func TestRedactCustomer_TransactionFailure(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()

	cause := errors.New("deadlock detected")
	redactions.On("DeleteCustomerData", mock.Anything, "demo.example", "42").
		Return(conversation.RedactionResult{}, cause)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000",
		CustomerIdentity{CustomerID: "42"})

	var redactionErr *webhook.RedactionFailedError
	require.ErrorAs(t, err, &redactionErr)
	assert.Equal(t, "demo.example", redactionErr.Shop)
	assert.ErrorIs(t, err, cause)

	require.Len(t, audit.Entries, 1)
	assert.Equal(t, webhook.AuditStatusFailed, audit.Entries[0].Status)
	assert.Equal(t, "ERR_REDACTION_FAILED", audit.Entries[0].ErrorCode)
}

func TestRedactShop_Success(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()

	redactions.On("DeleteShopData", mock.Anything, "demo.example").
		Return(conversation.RedactionResult{ProfilesDeleted: 12, SessionsDeleted: 30, MessagesDeleted: 200}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RedactShop(context.Background(), "demo.example", "1700000000")

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.ProfilesDeleted)
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, webhook.TopicShopRedact, audit.Entries[0].Topic)
}

func TestRedactCustomer_AuditFailureDoesNotFailPipeline(t *testing.T) {
	svc, redactions, audit := newTestRedactionService()

	redactions.On("DeleteCustomerData", mock.Anything, "demo.example", "42").
		Return(conversation.RedactionResult{ProfilesDeleted: 1}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit table locked"))

	_, err := svc.RedactCustomer(context.Background(), "demo.example", "1700000000",
		CustomerIdentity{CustomerID: "42"})

	assert.NoError(t, err)
}
