package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeOutcome(t *testing.T) {
	env := Envelope{
		Topic:     TopicCustomersRedact,
		Shop:      "demo.example",
		WebhookID: "1700000000",
		Signature: "c2ln",
		RawBody:   []byte(`{}`),
	}

	t.Run("accept carries the delivery identity", func(t *testing.T) {
		out := env.Accept()

		assert.True(t, out.Valid)
		assert.Nil(t, out.Err)
		assert.Equal(t, TopicCustomersRedact, out.Topic)
		assert.Equal(t, "demo.example", out.Shop)
		assert.Equal(t, "1700000000", out.WebhookID)
	})

	t.Run("reject carries the error and stays invalid", func(t *testing.T) {
		out := env.Reject(ErrSignatureMismatch)

		assert.False(t, out.Valid)
		assert.Equal(t, ErrSignatureMismatch, out.Err)
		assert.Equal(t, "demo.example", out.Shop)
	})
}
