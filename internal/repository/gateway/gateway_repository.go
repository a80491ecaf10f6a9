package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gomart/domain"

	"github.com/google/uuid"
)

type GatewayConfig struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
}

// GatewayRepository talks to the remote payment gateway. The gateway is an
// opaque collaborator with two calls: client token generation and sale.
type GatewayRepository struct {
	gatewayConfig GatewayConfig
	client        *http.Client
}

func NewGatewayRepository(cfg GatewayConfig) *GatewayRepository {
	return &GatewayRepository{
		gatewayConfig: cfg,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type clientTokenRequest struct {
	MerchantID string `json:"merchant_id"`
}

type clientTokenResponse struct {
	ClientToken string `json:"client_token"`
	Message     string `json:"message"`
}

type saleRequest struct {
	MerchantID         string  `json:"merchant_id"`
	Amount             float64 `json:"amount"`
	PaymentMethodNonce string  `json:"payment_method_nonce"`
}

type saleResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Transaction struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Amount float64 `json:"amount"`
	} `json:"transaction"`
}

// GenerateClientToken fetches a one-time token the storefront client uses to
// tokenize payment details into a nonce.
func (r *GatewayRepository) GenerateClientToken(ctx context.Context) (string, error) {
	payload, err := json.Marshal(clientTokenRequest{MerchantID: r.gatewayConfig.MerchantID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal client token request: %w", err)
	}

	var parsed clientTokenResponse
	if err := r.post(ctx, "/client_token", payload, &parsed); err != nil {
		return "", err
	}

	if parsed.ClientToken == "" {
		return "", errors.New("gateway returned no client token")
	}

	return parsed.ClientToken, nil
}

// Sale submits a sale transaction for the given amount and nonce. A response
// with success=false is surfaced as an error carrying the gateway's message.
func (r *GatewayRepository) Sale(ctx context.Context, amount float64, nonce string) (domain.Transaction, error) {
	payload, err := json.Marshal(saleRequest{
		MerchantID:         r.gatewayConfig.MerchantID,
		Amount:             amount,
		PaymentMethodNonce: nonce,
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to marshal sale request: %w", err)
	}

	var parsed saleResponse
	if err := r.post(ctx, "/transactions/sale", payload, &parsed); err != nil {
		return domain.Transaction{}, err
	}

	if !parsed.Success {
		if parsed.Message == "" {
			parsed.Message = "transaction declined"
		}
		return domain.Transaction{}, fmt.Errorf("gateway rejected sale: %s", parsed.Message)
	}

	return domain.Transaction{
		ID:     parsed.Transaction.ID,
		Status: parsed.Transaction.Status,
		Amount: parsed.Transaction.Amount,
	}, nil
}

func (r *GatewayRepository) post(ctx context.Context, path string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.gatewayConfig.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	// The gateway deduplicates retried submissions on this key.
	req.Header.Add("X-Idempotency-Key", uuid.NewString())
	req.SetBasicAuth(r.gatewayConfig.PublicKey, r.gatewayConfig.PrivateKey)

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("gateway returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}
