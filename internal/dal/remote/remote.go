package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/spf13/viper"

	"github.com/corray333/order-management/internal/metrics"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/status"
)

// Client talks to the remote order-storage authority over its JSON API.
// Every call resolves to exactly one outcome from the error taxonomy so
// the caller can always decide between confirming and rolling back.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// MustNewClient creates a client from configuration.
func MustNewClient() *Client {
	baseURL := viper.GetString("authority.base_url")
	if baseURL == "" {
		panic("authority.base_url is not configured")
	}

	return NewClient(baseURL)
}

// NewClient creates a client for the authority at baseURL. Timeout and
// retry behaviour come from configuration with compiled-in defaults.
func NewClient(baseURL string) *Client {
	timeout := viper.GetDuration("authority.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(viper.GetInt("authority.retry_count")).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only transient outcomes are safe to retry.
			return err != nil || r.StatusCode() >= 500
		})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "authority",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			case gobreaker.StateClosed:
				state = 0
			}
			metrics.CircuitBreakerState.Set(state)
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
	}
}

// ListOrders fetches the full authoritative order set.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	defer metrics.ObserveAuthority("list_orders", time.Now())

	resp, err := c.execute(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Get("/api/orders")
	})
	if err != nil {
		return nil, err
	}

	var dtos []orderDTO
	if err := json.Unmarshal(resp.Body(), &dtos); err != nil {
		return nil, fmt.Errorf("failed to decode order list: %w", err)
	}

	orders := make([]order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toModel(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// CreateOrder submits a validated draft. The authority assigns the id. Each
// submission carries a fresh idempotency key so a retried create cannot
// produce a duplicate.
func (c *Client) CreateOrder(ctx context.Context, draft order.Order) (order.Order, error) {
	defer metrics.ObserveAuthority("create_order", time.Now())

	resp, err := c.execute(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetHeader("Idempotency-Key", uuid.NewString()).
			SetBody(fromModel(draft)).
			Post("/api/orders")
	})
	if err != nil {
		return order.Order{}, err
	}

	var dto orderDTO
	if err := json.Unmarshal(resp.Body(), &dto); err != nil {
		return order.Order{}, fmt.Errorf("failed to decode created order: %w", err)
	}

	return toModel(dto)
}

// UpdateStatus asks the authority to apply an already-validated transition.
func (c *Client) UpdateStatus(ctx context.Context, id int64, to status.Status) error {
	defer metrics.ObserveAuthority("update_status", time.Now())

	_, err := c.execute(func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetBody(map[string]string{"status": to.String()}).
			Put(fmt.Sprintf("/api/orders/%d/status", id))
	})

	return err
}

// DeleteOrder removes an order at the authority.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	defer metrics.ObserveAuthority("delete_order", time.Now())

	_, err := c.execute(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/api/orders/%d", id))
	})

	return err
}

// Reset wipes every order at the authority.
func (c *Client) Reset(ctx context.Context) error {
	defer metrics.ObserveAuthority("reset", time.Now())

	_, err := c.execute(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Delete("/api/orders/reset")
	})

	return err
}

// execute runs one request through the circuit breaker and maps the
// response onto the error taxonomy.
func (c *Client) execute(req func() (*resty.Response, error)) (*resty.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := req()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= 500 {
			return nil, fmt.Errorf("authority returned %d: %s", resp.StatusCode(), message(resp))
		}

		return resp, nil
	})
	if err != nil {
		// Breaker-open, transport errors, timeouts and 5xx all land here
		// and are retryable by definition.
		return nil, &TransientError{Err: err}
	}

	resp := result.(*resty.Response)

	return resp, classify(resp)
}

// classify maps non-5xx responses onto the taxonomy. 5xx and transport
// failures were already turned into TransientError by execute.
func classify(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code < 300:
		return nil
	case code == 404:
		return ErrNotFound
	case code == 409:
		if msg := message(resp); msg != "" {
			return fmt.Errorf("%w: %s", ErrConflict, msg)
		}

		return ErrConflict
	default:
		return &RejectionError{StatusCode: code, Message: message(resp)}
	}
}

// message extracts the human-readable message from a structured error body.
func message(resp *resty.Response) string {
	var body errorDTO
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}

	return body.Error
}
