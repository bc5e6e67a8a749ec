package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"freshmarket/internal/config"

	"github.com/shopspring/decimal"
)

// GatewayClient talks to the payment gateway. One call per payment session;
// retries are the caller's responsibility.
type GatewayClient interface {
	CreatePayment(ctx context.Context, req *CreatePaymentParams) (*CreatePaymentResult, error)
}

type CreatePaymentParams struct {
	Amount         int64 // whole currency units
	Description    string
	OrderRef       string
	IdempotencyKey string
}

type CreatePaymentResult struct {
	PaymentID       string
	ConfirmationURL string
}

type gatewayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	shopID     string
	secretKey  string
	returnURL  string
}

type gatewayConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type gatewayCreateResult struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Confirmation gatewayConfirmation `json:"confirmation"`
}

func NewGatewayClient(gatewayCfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: gatewayCfg.BaseApiURL,
		shopID:     gatewayCfg.ShopID,
		secretKey:  gatewayCfg.SecretKey,
		returnURL:  gatewayCfg.ReturnURL,
	}
}

func (c *gatewayClientImpl) CreatePayment(ctx context.Context, params *CreatePaymentParams) (*CreatePaymentResult, error) {
	payload := map[string]interface{}{
		"amount": map[string]string{
			"value":    decimal.NewFromInt(params.Amount).StringFixed(2),
			"currency": "RUB",
		},
		"capture": true,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": c.returnURL,
		},
		"description": params.Description,
		"metadata": map[string]string{
			"order_id": params.OrderRef,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v3/payments",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", params.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var result gatewayCreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &CreatePaymentResult{
		PaymentID:       result.ID,
		ConfirmationURL: result.Confirmation.ConfirmationURL,
	}, nil
}
