package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coopfin/backend/internal/domain/payment"
)

const (
	requestToPayPath = "/v1/requesttopay"
	statusPathFormat = "/v1/requesttopay/%s"
)

// chargeRequestBody is the wire form of a request-to-pay call
type chargeRequestBody struct {
	Reference   string `json:"reference"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Phone       string `json:"phone"`
	Description string `json:"description,omitempty"`
}

// chargeResponseBody is the gateway's immediate answer to a charge
type chargeResponseBody struct {
	Status         string `json:"status"`
	SessionID      string `json:"session_id,omitempty"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	Message        string `json:"message,omitempty"`
}

// statusResponseBody is one confirmation status check on the wire
type statusResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MobileMoneyAdapter implements payment.PushGateway against an HTTP
// mobile-money gateway that resolves request-to-pay charges asynchronously
type MobileMoneyAdapter struct {
	config     *Config
	httpClient *http.Client
}

// NewMobileMoneyAdapter creates a new mobile-money gateway adapter
func NewMobileMoneyAdapter(config *Config) (*MobileMoneyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MobileMoneyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// RequestToPay submits a charge and returns immediately. A session_id in
// the response means the gateway is waiting on the payer's device and the
// outcome must be collected through status checks.
func (a *MobileMoneyAdapter) RequestToPay(ctx context.Context, req *payment.ChargeRequest) (*payment.ChargeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := chargeRequestBody{
		Reference:   req.Reference,
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		Phone:       req.Phone,
		Description: req.Description,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mobilemoney: failed to marshal charge request: %w", err)
	}

	var resp chargeResponseBody
	if err := a.post(ctx, requestToPayPath, payload, &resp); err != nil {
		return nil, err
	}

	return &payment.ChargeResponse{
		SessionHandle:  resp.SessionID,
		TransactionRef: resp.TransactionRef,
		Status:         resp.Status,
		Message:        resp.Message,
	}, nil
}

// CheckStatus queries the confirmation status for a session handle
func (a *MobileMoneyAdapter) CheckStatus(ctx context.Context, handle string) (*payment.StatusResponse, error) {
	if handle == "" {
		return nil, payment.ErrInvalidHandle
	}

	path := fmt.Sprintf(statusPathFormat, url.PathEscape(handle))
	var resp statusResponseBody
	if err := a.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	return &payment.StatusResponse{
		Outcome:   payment.ParsePollOutcome(resp.Status),
		Message:   resp.Message,
		RawStatus: resp.Status,
	}, nil
}

func (a *MobileMoneyAdapter) post(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mobilemoney: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *MobileMoneyAdapter) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("mobilemoney: failed to build request: %w", err)
	}
	return a.do(req, out)
}

func (a *MobileMoneyAdapter) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Time", time.Now().UTC().Format(time.RFC3339))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", payment.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: gateway returned %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: gateway returned %d: %s", payment.ErrGatewayInvalidResponse, resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	return nil
}

// Ensure MobileMoneyAdapter implements the domain port
var _ payment.PushGateway = (*MobileMoneyAdapter)(nil)
