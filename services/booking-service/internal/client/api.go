package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a non-2xx reply from the booking API. Message is the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.Status, e.Message)
}

// Client talks to the /api/appointments endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slots fetches the slot list for date.
func (c *Client) Slots(ctx context.Context, date string) ([]model.TimeSlot, error) {
	u := c.baseURL + "/api/appointments?" + url.Values{"date": {date}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var slots []model.TimeSlot
	if err := c.do(req, http.StatusOK, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Book submits a booking and returns the confirmation.
func (c *Client) Book(ctx context.Context, in model.BookingRequest) (model.Confirmation, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.Confirmation{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/appointments", bytes.NewReader(body))
	if err != nil {
		return model.Confirmation{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var conf model.Confirmation
	if err := c.do(req, http.StatusCreated, &conf); err != nil {
		return model.Confirmation{}, err
	}
	return conf, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
