// Package steamweb implements the trading.TradingService contract against a
// Steam-like trading/inventory web API: a rate-limited HTTP client with
// retry-with-backoff on transient failures.
package steamweb

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"tradeoffer-engine/internal/logger"
	"tradeoffer-engine/internal/trading"
)

const (
	maxRetries    = 3
	retryBaseWait = 500 * time.Millisecond
)

// Client is a rate-limited HTTP client implementing trading.TradingService.
// It uses two separate semaphores so that bulk inventory paging never
// starves lightweight calls (listing offers, accept/decline, trade holds).
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	sem        chan struct{} // lightweight calls: offers, accept/decline, holds, 2FA
	inventorySem chan struct{} // bulk inventory page fetches
	hasAuth    bool

	inventoryGroup singleflight.Group
}

// NewClient creates a steamweb Client. hasAuth reports whether the account
// has a mobile authenticator configured, per trading.HasMobileAuthenticator.
func NewClient(baseURL, apiKey string, hasAuth bool) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     120 * time.Second,
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second, Transport: transport},
		sem:          make(chan struct{}, 20),
		inventorySem: make(chan struct{}, 10),
		hasAuth:      hasAuth,
	}
}

// HasMobileAuthenticator implements trading.HasMobileAuthenticator.
func (c *Client) HasMobileAuthenticator() bool {
	return c.hasAuth
}

func isRetryable(statusCode int) bool {
	return statusCode == 502 || statusCode == 503 || statusCode == 504 || statusCode == 520
}

// getJSON performs a rate-limited GET against the lightweight semaphore,
// retrying transient upstream failures with exponential backoff.
func (c *Client) getJSON(ctx context.Context, path string, dst interface{}) error {
	return c.doJSON(ctx, c.sem, http.MethodGet, path, nil, dst)
}

// postJSON performs a rate-limited POST against the lightweight semaphore.
func (c *Client) postJSON(ctx context.Context, path string, body, dst interface{}) error {
	return c.doJSON(ctx, c.sem, http.MethodPost, path, body, dst)
}

func (c *Client) doJSON(ctx context.Context, sem chan struct{}, method, path string, body, dst interface{}) error {
	var bodyBytes []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyBytes = encoded
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := retryBaseWait * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		sem <- struct{}{}
		resp, err := c.send(ctx, method, path, bodyBytes)
		if err != nil {
			<-sem
			lastErr = err
			logger.Warn("SteamWeb", fmt.Sprintf("request failed (attempt %d/%d): %v", attempt+1, maxRetries+1, err))
			continue
		}

		if resp.StatusCode == http.StatusOK {
			decErr := json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			<-sem
			return decErr
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		<-sem
		lastErr = fmt.Errorf("steamweb %s %s: HTTP %d: %s", method, path, resp.StatusCode, string(respBody))

		if !isRetryable(resp.StatusCode) {
			return lastErr
		}
		logger.Warn("SteamWeb", fmt.Sprintf("retryable error %d (attempt %d/%d): %s", resp.StatusCode, attempt+1, maxRetries+1, path))
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.http.Do(req)
}

// GetActiveTradeOffers implements trading.TradingService.
func (c *Client) GetActiveTradeOffers(ctx context.Context) ([]trading.TradeOffer, error) {
	var resp struct {
		Offers []wireTradeOffer `json:"offers"`
	}
	if err := c.getJSON(ctx, "/trades/active", &resp); err != nil {
		return nil, fmt.Errorf("get active trade offers: %w", err)
	}
	out := make([]trading.TradeOffer, 0, len(resp.Offers))
	for _, o := range resp.Offers {
		out = append(out, o.toDomain())
	}
	return out, nil
}

// AcceptTradeOffer implements trading.TradingService.
func (c *Client) AcceptTradeOffer(ctx context.Context, tradeOfferID uint64) (bool, bool, error) {
	var resp struct {
		OK                bool `json:"ok"`
		NeedsConfirmation bool `json:"needs_mobile_confirmation"`
	}
	path := fmt.Sprintf("/trades/%d/accept", tradeOfferID)
	if err := c.postJSON(ctx, path, nil, &resp); err != nil {
		return false, false, fmt.Errorf("accept trade offer %d: %w", tradeOfferID, err)
	}
	return resp.OK, resp.NeedsConfirmation, nil
}

// DeclineTradeOffer implements trading.TradingService.
func (c *Client) DeclineTradeOffer(ctx context.Context, tradeOfferID uint64) (bool, error) {
	var resp struct {
		OK bool `json:"ok"`
	}
	path := fmt.Sprintf("/trades/%d/decline", tradeOfferID)
	if err := c.postJSON(ctx, path, nil, &resp); err != nil {
		return false, fmt.Errorf("decline trade offer %d: %w", tradeOfferID, err)
	}
	return resp.OK, nil
}

// GetInventory implements trading.TradingService. Concurrent requests for
// the same steamID64 within one in-flight fetch are collapsed into one
// upstream call via singleflight, since many offers evaluated in the same
// scheduler pass fetch the same inventory (the bot's own).
func (c *Client) GetInventory(ctx context.Context, steamID64 uint64) ([]trading.Item, error) {
	key := strconv.FormatUint(steamID64, 10)
	value, err, _ := c.inventoryGroup.Do(key, func() (interface{}, error) {
		return c.fetchInventory(ctx, steamID64)
	})
	if err != nil {
		return nil, err
	}
	return value.([]trading.Item), nil
}

func (c *Client) fetchInventory(ctx context.Context, steamID64 uint64) ([]trading.Item, error) {
	var items []trading.Item
	cursor := ""
	for {
		path := fmt.Sprintf("/inventory/%d?cursor=%s", steamID64, cursor)
		var page struct {
			Items      []wireItem `json:"items"`
			NextCursor string     `json:"next_cursor"`
		}
		if err := c.doJSON(ctx, c.inventorySem, http.MethodGet, path, nil, &page); err != nil {
			return nil, fmt.Errorf("get inventory for %d: %w", steamID64, err)
		}
		for _, it := range page.Items {
			items = append(items, it.toDomain())
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return items, nil
}

// GetTradeHoldDuration implements trading.TradingService. A nil result
// means the duration is unavailable.
func (c *Client) GetTradeHoldDuration(ctx context.Context, otherSteamID64, tradeOfferID uint64) (*uint8, error) {
	var resp struct {
		Days      *uint8 `json:"days"`
		Available bool   `json:"available"`
	}
	path := fmt.Sprintf("/trades/%d/hold?other=%d", tradeOfferID, otherSteamID64)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get trade hold duration: %w", err)
	}
	if !resp.Available {
		return nil, nil
	}
	return resp.Days, nil
}

// HandleTwoFactorAuthenticationConfirmations implements trading.TradingService.
func (c *Client) HandleTwoFactorAuthenticationConfirmations(ctx context.Context, accept bool, kind trading.ConfirmationKind, ids []uint64, waitIfNecessary bool) (bool, error) {
	var resp struct {
		OK bool `json:"ok"`
	}
	req := struct {
		Accept bool     `json:"accept"`
		Kind   int      `json:"kind"`
		IDs    []uint64 `json:"ids"`
		Wait   bool     `json:"wait_if_necessary"`
	}{Accept: accept, Kind: int(kind), IDs: ids, Wait: waitIfNecessary}
	if err := c.postJSON(ctx, "/confirmations", req, &resp); err != nil {
		return false, fmt.Errorf("handle confirmations: %w", err)
	}
	return resp.OK, nil
}
