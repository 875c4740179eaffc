package compliance

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/domain/shop"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/infrastructure/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testShop   = "demo.example"
	testSecret = "s3cr3t"
)

type webhookServiceFixture struct {
	svc        *WebhookService
	redactions *MockRedactionRepository
	accounts   *MockAccountRepository
	audit      *MockAuditSink
	replay     *MockReplayStore
}

func newWebhookServiceFixture(secret string, replay shared.DeliveryReplayStore) *webhookServiceFixture {
	f := &webhookServiceFixture{
		redactions: &MockRedactionRepository{},
		accounts:   &MockAccountRepository{},
		audit:      &MockAuditSink{},
	}
	if rs, ok := replay.(*MockReplayStore); ok {
		f.replay = rs
	}

	verifier := platform.NewSignatureVerifier(secret, nil)
	freshness := platform.NewFreshnessGuard(300*time.Second, nil)
	redaction := NewRedactionService(f.redactions, f.audit, nil, nil)

	f.svc = NewWebhookService(
		verifier, freshness,
		replay, shared.DefaultReplayConfig(),
		redaction, f.accounts, f.audit, nil, nil,
	)
	return f
}

// signedEnvelope builds a delivery with a valid signature and fresh id
func signedEnvelope(topic, shopDomain string, body []byte) webhook.Envelope {
	verifier := platform.NewSignatureVerifier(testSecret, nil)
	return webhook.Envelope{
		Topic:     topic,
		Shop:      shopDomain,
		WebhookID: strconv.FormatInt(time.Now().Unix(), 10),
		Signature: verifier.Sign(body),
		RawBody:   body,
	}
}

func TestProcess_CustomerRedact(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.redactions.On("DeleteCustomerData", mock.Anything, testShop, "42").
		Return(conversation.RedactionResult{ProfilesDeleted: 1, SessionsDeleted: 1, MessagesDeleted: 3}, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":"42"}}`))
	result, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, int64(1), result.ProfilesDeleted)
	f.redactions.AssertExpectations(t)
}

func TestProcess_NumericCustomerID(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.redactions.On("DeleteCustomerData", mock.Anything, testShop, "42").
		Return(conversation.RedactionResult{ProfilesDeleted: 1}, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":42}}`))
	_, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	f.redactions.AssertExpectations(t)
}

func TestProcess_WrongSignature(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":"42"}}`))
	env.Signature = "deadbeef"

	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrSignatureMismatch, err)
	f.redactions.AssertNotCalled(t, "DeleteCustomerData")

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, webhook.AuditStatusRejected, f.audit.Entries[0].Status)
	assert.Equal(t, "ERR_SIGNATURE_MISMATCH", f.audit.Entries[0].ErrorCode)
}

func TestProcess_MissingSignature(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{}`))
	env.Signature = ""

	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrSignatureMissing, err)
}

func TestProcess_MissingSecret(t *testing.T) {
	f := newWebhookServiceFixture("", nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{}`))
	env.Signature = "anything"

	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrSecretMissing, err)
}

func TestProcess_StaleDelivery(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	body := []byte(`{"customer":{"id":"42"}}`)
	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, body)
	env.WebhookID = strconv.FormatInt(time.Now().Add(-400*time.Second).Unix(), 10)

	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrStaleDelivery, err)
	f.redactions.AssertNotCalled(t, "DeleteCustomerData")
}

func TestProcess_DuplicateDelivery(t *testing.T) {
	replay := &MockReplayStore{}
	f := newWebhookServiceFixture(testSecret, replay)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	replay.On("MarkSeen", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":"42"}}`))
	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrDuplicateDelivery, err)
	f.redactions.AssertNotCalled(t, "DeleteCustomerData")
}

func TestProcess_ReplayStoreFailureDoesNotBlockIntake(t *testing.T) {
	replay := &MockReplayStore{}
	f := newWebhookServiceFixture(testSecret, replay)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	replay.On("MarkSeen", mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("redis unreachable"))
	f.redactions.On("DeleteCustomerData", mock.Anything, testShop, "42").
		Return(conversation.RedactionResult{ProfilesDeleted: 1}, nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":"42"}}`))
	_, err := f.svc.Process(context.Background(), env)

	assert.NoError(t, err)
	f.redactions.AssertExpectations(t)
}

func TestProcess_MissingTopic(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope("", testShop, []byte(`{}`))
	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrTopicMissing, err)
}

func TestProcess_MissingShop(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersRedact, "", []byte(`{}`))
	_, err := f.svc.Process(context.Background(), env)

	assert.Equal(t, webhook.ErrShopMissing, err)
}

func TestProcess_RedactionFailureSurfacesCause(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	cause := errors.New("deadlock detected")
	f.redactions.On("DeleteCustomerData", mock.Anything, testShop, "42").
		Return(conversation.RedactionResult{}, cause)

	env := signedEnvelope(webhook.TopicCustomersRedact, testShop, []byte(`{"customer":{"id":"42"}}`))
	_, err := f.svc.Process(context.Background(), env)

	var redactionErr *webhook.RedactionFailedError
	require.ErrorAs(t, err, &redactionErr)
	assert.ErrorIs(t, err, cause)
}

func TestProcess_ShopRedact(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.redactions.On("DeleteShopData", mock.Anything, testShop).
		Return(conversation.RedactionResult{ProfilesDeleted: 9}, nil)

	env := signedEnvelope(webhook.TopicShopRedact, testShop, []byte(`{"shop_domain":"demo.example"}`))
	result, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, int64(9), result.ProfilesDeleted)
}

func TestProcess_DataRequestRecordsAuditOnly(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	env := signedEnvelope(webhook.TopicCustomersDataRequest, testShop, []byte(`{"customer":{"id":"42"}}`))
	result, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, result.Processed)
	f.redactions.AssertNotCalled(t, "DeleteCustomerData")

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, webhook.AuditStatusCompleted, f.audit.Entries[0].Status)
	assert.Equal(t, "42", f.audit.Entries[0].CustomerID)
	require.NotNil(t, f.audit.Entries[0].Deadline)
}

func TestProcess_AppUninstalledClearsToken(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)

	account, err := shop.NewAccount(testShop, "shpat_token", "read_products")
	require.NoError(t, err)
	f.accounts.On("FindByDomain", mock.Anything, testShop).Return(account, nil)
	f.accounts.On("Save", mock.Anything, mock.MatchedBy(func(a *shop.Account) bool {
		return a.Status == shop.AccountStatusUninstalled && a.AccessToken == ""
	})).Return(nil)

	env := signedEnvelope(webhook.TopicAppUninstalled, testShop, []byte(`{}`))
	result, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	assert.True(t, result.Processed)
	f.accounts.AssertExpectations(t)
}

func TestProcess_AppUninstalledUnknownShopIsNoop(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)
	f.accounts.On("FindByDomain", mock.Anything, testShop).Return(nil, shared.ErrNotFound)

	env := signedEnvelope(webhook.TopicAppUninstalled, testShop, []byte(`{}`))
	_, err := f.svc.Process(context.Background(), env)

	assert.NoError(t, err)
	f.accounts.AssertNotCalled(t, "Save")
}

func TestProcess_OrdinaryTopicAccepted(t *testing.T) {
	f := newWebhookServiceFixture(testSecret, nil)

	env := signedEnvelope("orders/create", testShop, []byte(`{"order":{"id":1}}`))
	result, err := f.svc.Process(context.Background(), env)

	require.NoError(t, err)
	assert.False(t, result.Processed)
	f.redactions.AssertNotCalled(t, "DeleteCustomerData")
}
