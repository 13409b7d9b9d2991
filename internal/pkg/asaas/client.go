// Package asaas is a small client for the Asaas payment gateway REST API (v3).
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

const (
	SandboxBaseURL    = "https://sandbox.asaas.com/api"
	ProductionBaseURL = "https://api.asaas.com"

	defaultTimeout         = 15 * time.Second
	defaultInitialInterval = 200 * time.Millisecond
)

// Config configures the gateway client
type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	LookupRetries   int
	InitialInterval time.Duration // first backoff step for lookups
}

// Client talks to the Asaas API. Only GET lookups are retried; writes are attempted once.
type Client struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	lookupRetries   uint64
	initialInterval time.Duration
	logger          zerolog.Logger
}

// NewClient creates a gateway client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.LookupRetries < 0 {
		cfg.LookupRetries = 0
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaultInitialInterval
	}
	return &Client{
		baseURL:         strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v3"), // paths carry the version
		apiKey:          cfg.APIKey,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		lookupRetries:   uint64(cfg.LookupRetries),
		initialInterval: cfg.InitialInterval,
		logger:          logger.With().Str("component", "asaas").Logger(),
	}
}

// statusError is a non-2xx answer from the gateway
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("asaas: status %d: %s", e.Status, e.Body)
}

func (e *statusError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// CreateCheckout opens a hosted recurring checkout and returns its URL
func (c *Client) CreateCheckout(ctx context.Context, in CheckoutRequest) (*Checkout, error) {
	var out Checkout
	if err := c.do(ctx, http.MethodPost, "/v3/checkouts", in, &out); err != nil {
		c.logger.Error().Err(err).Str("externalReference", in.ExternalReference).Msg("Checkout creation failed")
		return nil, apperrors.NewGatewayError(err)
	}
	if out.URL() == "" {
		return nil, apperrors.NewGatewayError(errors.New("asaas: checkout response without link"))
	}
	return &out, nil
}

// GetSubscription fetches a subscription by id. A missing subscription returns nil, nil.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var out Subscription
	found, err := c.lookup(ctx, "/v3/subscriptions/"+url.PathEscape(id), &out)
	if err != nil {
		return nil, apperrors.NewGatewayError(err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// FindActiveSubscription returns the first ACTIVE subscription tagged with externalReference, or nil
func (c *Client) FindActiveSubscription(ctx context.Context, externalReference string) (*Subscription, error) {
	query := url.Values{}
	query.Set("externalReference", externalReference)
	query.Set("status", SubscriptionActive)

	var page subscriptionPage
	if _, err := c.lookup(ctx, "/v3/subscriptions?"+query.Encode(), &page); err != nil {
		return nil, apperrors.NewGatewayError(err)
	}
	for i := range page.Data {
		if page.Data[i].Status == "" || page.Data[i].Status == SubscriptionActive {
			return &page.Data[i], nil
		}
	}
	return nil, nil
}

// CancelSubscription deletes a subscription at the gateway
func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	var out struct {
		Deleted bool   `json:"deleted"`
		ID      string `json:"id"`
	}
	if err := c.do(ctx, http.MethodDelete, "/v3/subscriptions/"+url.PathEscape(id), nil, &out); err != nil {
		c.logger.Error().Err(err).Str("subscriptionId", id).Msg("Subscription cancellation failed")
		return apperrors.NewGatewayError(err)
	}
	return nil
}

// lookup performs a GET with bounded exponential backoff. found is false on 404.
func (c *Client) lookup(ctx context.Context, path string, out interface{}) (found bool, err error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			found = true
			return nil
		}
		var se *statusError
		if errors.As(err, &se) {
			if se.Status == http.StatusNotFound {
				return nil
			}
			if !se.retryable() {
				return backoff.Permanent(err)
			}
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Int("attempt", attempt).Dur("retryIn", wait).Str("path", path).Msg("Gateway lookup failed, retrying")
	}

	err = backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.lookupRetries), ctx), notify)
	return found, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gymapp-api")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
