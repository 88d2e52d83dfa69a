// Package lemonsqueezy implements the small slice of the Lemon Squeezy
// JSON:API surface the billing flow needs: checkout creation,
// subscription fetch, and subscription listing by order.
package lemonsqueezy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/daymark/daymark/internal/config"
	"go.uber.org/zap"
)

const defaultAPIHost = "https://api.lemonsqueezy.com"

type Client struct {
	host   string
	apiKey string
	http   *http.Client
	log    *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	host := cfg.LemonSqueezy.APIHost
	if host == "" {
		host = defaultAPIHost
	}
	return &Client{
		host:   host,
		apiKey: cfg.LemonSqueezy.APIKey,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log.Named("lemonsqueezy.client"),
	}
}

type CheckoutRequest struct {
	StoreID         int64
	VariantID       int64
	Email           string
	InternalOrderID string
	RedirectURL     string
}

type Checkout struct {
	ID         string `json:"id"`
	Attributes struct {
		URL string `json:"url"`
	} `json:"attributes"`
}

type Subscription struct {
	ID         string `json:"id"`
	Attributes struct {
		StoreID   int64   `json:"store_id"`
		OrderID   int64   `json:"order_id"`
		ProductID int64   `json:"product_id"`
		VariantID int64   `json:"variant_id"`
		Status    string  `json:"status"`
		CreatedAt string  `json:"created_at"`
		RenewsAt  *string `json:"renews_at"`
		EndsAt    *string `json:"ends_at"`
	} `json:"attributes"`
}

// CreateCheckout opens a hosted checkout for the configured variant. The
// internal order id rides along as custom data so the webhook can be
// correlated back to the local order row.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	body := map[string]any{
		"data": map[string]any{
			"type": "checkouts",
			"attributes": map[string]any{
				"checkout_data": map[string]any{
					"email": req.Email,
					"custom": map[string]any{
						"internal_order_id": req.InternalOrderID,
					},
				},
				"product_options": map[string]any{
					"redirect_url": req.RedirectURL,
				},
			},
			"relationships": map[string]any{
				"store": map[string]any{
					"data": map[string]any{
						"type": "stores",
						"id":   fmt.Sprintf("%d", req.StoreID),
					},
				},
				"variant": map[string]any{
					"data": map[string]any{
						"type": "variants",
						"id":   fmt.Sprintf("%d", req.VariantID),
					},
				},
			},
		},
	}

	var out struct {
		Data Checkout `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/checkouts", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetSubscription fetches a single subscription by its provider id.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var out struct {
		Data Subscription `json:"data"`
	}
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListSubscriptionsByOrder lists subscriptions attached to a provider
// order id.
func (c *Client) ListSubscriptionsByOrder(ctx context.Context, orderID int64) ([]Subscription, error) {
	var out struct {
		Data []Subscription `json:"data"`
	}
	path := fmt.Sprintf("/v1/subscriptions?filter[order_id]=%d", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("lemon squeezy request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("lemon squeezy: %s %s returned %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
