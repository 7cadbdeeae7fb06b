// Package backend is the HTTP client for the reservation REST service:
//
//	GET    /api/reservations?date=YYYY-MM-DD
//	GET    /api/stats
//	PUT    /api/reservations/{order_id}
//	DELETE /api/reservations/{order_id}
//
// Timeouts belong to the client; retries are left to the caller.
package backend

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

	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the reservation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL (e.g. http://localhost:5000).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListByDay fetches the snapshot for day.
func (c *Client) ListByDay(ctx context.Context, day model.Date) ([]model.Reservation, error) {
	q := url.Values{"date": []string{day.String()}}
	var out []model.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Reservation{}
	}
	return out, nil
}

// GlobalStats fetches the legacy aggregate counters.
func (c *Client) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	var st model.GlobalStats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &st); err != nil {
		return model.GlobalStats{}, err
	}
	return st, nil
}

// Update sends the full record.  The backend answers either with the
// stored record or with {"success": bool}; in the latter case r is returned
// as sent.
func (c *Client) Update(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("encode reservation: %w", err)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/reservations/"+url.PathEscape(r.OrderID), body, &raw); err != nil {
		return model.Reservation{}, err
	}
	if len(raw) == 0 {
		return r, nil
	}
	var ack struct {
		Success *bool `json:"success"`
	}
	if json.Unmarshal(raw, &ack) == nil && ack.Success != nil {
		if !*ack.Success {
			return model.Reservation{}, snapshot.ErrNotFound
		}
		return r, nil
	}
	var updated model.Reservation
	if json.Unmarshal(raw, &updated) == nil && updated.OrderID != "" {
		return updated, nil
	}
	return r, nil
}

// Delete removes a reservation.  The backend signals a missing record
// either with 404 or with {"success": false}.
func (c *Client) Delete(ctx context.Context, orderID string) error {
	var res struct {
		Success *bool `json:"success"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/reservations/"+url.PathEscape(orderID), nil, &res)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return err
	}
	if res.Success != nil && !*res.Success {
		return snapshot.ErrNotFound
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, err)
	}
	return nil
}
