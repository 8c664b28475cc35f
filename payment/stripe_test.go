package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	"github.com/Ahmed-Mansy/shoe-zone-online/payment"
)

func newTestClient(server *httptest.Server) *payment.StripeClient {
	client := payment.NewStripeClient("sk_test_key")
	client.BaseURL = server.URL
	return client
}

func TestCreateIntent(t *testing.T) {
	t.Run("sends form fields, auth and the idempotency key", func(t *testing.T) {
		var got *http.Request
		var gotForm map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			got = r
			gotForm = r.PostForm
			w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method"}`))
		}))
		defer server.Close()

		intent, err := newTestClient(server).CreateIntent(context.Background(), 2000, "egp",
			payment.Metadata{UserID: 7, OrderID: 99}, "key-abc")
		require.NoError(t, err)

		assert.Equal(t, "pi_123", intent.ID)
		assert.Equal(t, "pi_123_secret", intent.ClientSecret)

		assert.Equal(t, "/payment_intents", got.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", got.Header.Get("Authorization"))
		assert.Equal(t, "key-abc", got.Header.Get("Idempotency-Key"))
		assert.Equal(t, []string{"2000"}, gotForm["amount"])
		assert.Equal(t, []string{"egp"}, gotForm["currency"])
		assert.Equal(t, []string{"7"}, gotForm["metadata[user_id]"])
		assert.Equal(t, []string{"99"}, gotForm["metadata[order_id]"])
	})

	t.Run("card errors map to CardError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server).CreateIntent(context.Background(), 2000, "egp", payment.Metadata{}, "key")
		var cardErr *apperrors.CardError
		require.ErrorAs(t, err, &cardErr)
		assert.Equal(t, "card_declined", cardErr.Code)
	})

	t.Run("other provider errors map to ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server).CreateIntent(context.Background(), 2000, "egp", payment.Metadata{}, "key")
		var providerErr *apperrors.ProviderError
		require.ErrorAs(t, err, &providerErr)
		assert.Contains(t, providerErr.Message, "Invalid API Key")
	})

	t.Run("empty intent body is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestClient(server).CreateIntent(context.Background(), 2000, "egp", payment.Metadata{}, "key")
		var providerErr *apperrors.ProviderError
		assert.ErrorAs(t, err, &providerErr)
	})
}

func TestRetrieveIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
		w.Write([]byte(`{"id":"pi_123","status":"succeeded"}`))
	}))
	defer server.Close()

	intent, err := newTestClient(server).RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, payment.IntentStatusSucceeded, intent.Status)
}
