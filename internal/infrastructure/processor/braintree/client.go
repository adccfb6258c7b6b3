package braintree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Credentials struct {
	MerchantID string
	PublicKey  string
	PrivateKey string
}

// Client submits sales to the Braintree gateway.
type Client struct {
	baseURL     string
	credentials Credentials
	httpClient  *http.Client
}

func NewClient(baseURL string, credentials Credentials, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Sale(ctx context.Context, req saleRequest) (*Transaction, error) {
	endpoint := fmt.Sprintf("%s/merchants/%s/transactions", c.baseURL, url.PathEscape(c.credentials.MerchantID))

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.SetBasicAuth(c.credentials.PublicKey, c.credentials.PrivateKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	var sale saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	return &sale.Transaction, nil
}
