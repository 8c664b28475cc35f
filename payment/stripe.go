package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
)

const defaultStripeBaseURL = "https://api.stripe.com/v1"

// StripeClient talks to the Stripe payment-intents API directly over HTTP.
type StripeClient struct {
	SecretKey string
	BaseURL   string
	HTTP      *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		SecretKey: secretKey,
		BaseURL:   defaultStripeBaseURL,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *StripeClient) CreateIntent(ctx context.Context, amountMinor int64, currency string, meta Metadata, idempotencyKey string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")
	form.Set("metadata[user_id]", strconv.FormatUint(uint64(meta.UserID), 10))
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(meta.OrderID), 10))

	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	return s.do(ctx, http.MethodPost, "/payment_intents", form, headers)
}

func (s *StripeClient) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	return s.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, nil)
}

func (s *StripeClient) do(ctx context.Context, method, path string, form url.Values, headers map[string]string) (*Intent, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	var parsed stripeIntentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}

	if parsed.Error != nil {
		if parsed.Error.Type == "card_error" {
			return nil, &apperrors.CardError{Code: parsed.Error.Code, Message: parsed.Error.Message}
		}
		return nil, &apperrors.ProviderError{Message: parsed.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ProviderError{Message: fmt.Sprintf("provider returned status %d", resp.StatusCode)}
	}
	if parsed.ID == "" {
		return nil, &apperrors.ProviderError{Message: "provider returned an empty intent"}
	}

	return &Intent{ID: parsed.ID, ClientSecret: parsed.ClientSecret, Status: parsed.Status}, nil
}
