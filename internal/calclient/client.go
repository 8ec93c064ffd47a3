// Package calclient is the HTTP client for the platform's
// person-calendar and person directory endpoints. It owns all network
// access for the calendar subsystem; the view and editor never build
// requests themselves.
package calclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/opscal/internal/model"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New builds a client for the given base URL. All requests carry the
// bearer token and flow through an otel-instrumented transport. There
// is no retry or backoff: a failed call surfaces immediately and the
// user retries by hand.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// ListEvents fetches the person-calendar entries overlapping [from, to).
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	query := url.Values{}
	query.Set("from_ts", from.Format(time.RFC3339))
	query.Set("to_ts", to.Format(time.RFC3339))

	var resp listEventsResponse
	if err := c.do(ctx, http.MethodGet, "/person-calendar?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, item.ToEvent())
	}
	return events, nil
}

// CreateSlot creates a plain calendar slot.
func (c *Client) CreateSlot(ctx context.Context, req CreateSlotRequest) (model.Event, error) {
	var rec EventRecord
	if err := c.do(ctx, http.MethodPost, "/person-calendar", req, &rec); err != nil {
		return model.Event{}, err
	}
	return rec.ToEvent(), nil
}

// CreateBooking creates a fully orchestrated booking through the
// booking-service flow.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (model.Event, error) {
	var rec EventRecord
	if err := c.do(ctx, http.MethodPost, "/person-calendar/create", req, &rec); err != nil {
		return model.Event{}, err
	}
	return rec.ToEvent(), nil
}

// Reschedule moves a slot to a new interval. Drag-move sends only the
// two timestamps; everything else stays as stored.
func (c *Client) Reschedule(ctx context.Context, id string, from, to time.Time) error {
	req := UpdateSlotRequest{FromTs: &from, ToTs: &to}
	return c.do(ctx, http.MethodPatch, "/person-calendar/"+url.PathEscape(id), req, nil)
}

// UpdateSlot applies a partial edit to a slot.
func (c *Client) UpdateSlot(ctx context.Context, id string, req UpdateSlotRequest) error {
	return c.do(ctx, http.MethodPatch, "/person-calendar/"+url.PathEscape(id), req, nil)
}

// DeleteSlot removes a slot. The caller is responsible for having
// confirmed the deletion with the user first.
func (c *Client) DeleteSlot(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/person-calendar/"+url.PathEscape(id), nil, nil)
}

// ListEmployees fetches one page of the employee directory.
func (c *Client) ListEmployees(ctx context.Context, page, limit int) ([]model.Person, error) {
	return c.listPeople(ctx, "/employee", model.PersonEmployee, page, limit)
}

// ListCustomers fetches one page of the customer directory.
func (c *Client) ListCustomers(ctx context.Context, page, limit int) ([]model.Person, error) {
	return c.listPeople(ctx, "/cust", model.PersonCustomer, page, limit)
}

func (c *Client) listPeople(ctx context.Context, path string, kind model.PersonType, page, limit int) ([]model.Person, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp listPeopleResponse
	if err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	people := make([]model.Person, 0, len(resp.Items))
	for _, item := range resp.Items {
		people = append(people, model.Person{
			ID:    item.ID,
			Name:  item.Name,
			Type:  kind,
			Email: item.Email,
		})
	}
	return people, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("calendar api error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
