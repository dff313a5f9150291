// Package upstream is the typed client for the portal's REST API. The API is
// the system of record for every entity this application renders; the client
// only attaches the bearer credential and translates responses into Go types.
package upstream

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

	"github.com/campushq/portal/internal/metrics"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "authenticate", http.MethodPost, "/api/v1/auth/authenticate", nil, body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// UserDetails fetches the identity bound to the bearer token in ctx.
func (c *Client) UserDetails(ctx context.Context) (UserDetails, error) {
	var out UserDetails
	err := c.do(ctx, "user_details", http.MethodGet, "/user/details", nil, nil, &out)
	return out, err
}

func (c *Client) EnrollmentGroups(ctx context.Context) ([]EnrollmentGroup, error) {
	var out []EnrollmentGroup
	err := c.do(ctx, "round_all", http.MethodGet, "/round/all", nil, nil, &out)
	return out, err
}

func (c *Client) ReservationForm(ctx context.Context) (ReservationFormData, error) {
	var out ReservationFormData
	err := c.do(ctx, "application_form", http.MethodGet, "/application/form", nil, nil, &out)
	return out, err
}

func (c *Client) Applications(ctx context.Context) ([]Application, error) {
	var out []Application
	err := c.do(ctx, "application_all", http.MethodGet, "/application/all", nil, nil, &out)
	return out, err
}

func (c *Client) Application(ctx context.Context, id int) (Application, error) {
	var out Application
	err := c.do(ctx, "application_get", http.MethodGet, fmt.Sprintf("/application/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) SaveApplication(ctx context.Context, req SaveApplicationRequest) error {
	return c.do(ctx, "application_save", http.MethodPost, "/application/save", nil, req, nil)
}

func (c *Client) AcceptApplication(ctx context.Context, id int) error {
	return c.do(ctx, "application_accept", http.MethodPut, fmt.Sprintf("/application/accept/%d", id), nil, nil, nil)
}

func (c *Client) RejectApplication(ctx context.Context, id int) error {
	return c.do(ctx, "application_reject", http.MethodPut, fmt.Sprintf("/application/reject/%d", id), nil, nil, nil)
}

// AmendApplication rewrites the proposed building/room while the application
// stays pending.
func (c *Client) AmendApplication(ctx context.Context, id, buildingID, roomID int) error {
	query := url.Values{}
	query.Set("buildingId", fmt.Sprint(buildingID))
	query.Set("roomId", fmt.Sprint(roomID))
	return c.do(ctx, "application_amend", http.MethodPut, fmt.Sprintf("/application/amend/%d", id), query, nil, nil)
}

func (c *Client) Schedules(ctx context.Context) ([]Schedule, error) {
	var out []Schedule
	err := c.do(ctx, "schedule_all", http.MethodGet, "/schedule/all", nil, nil, &out)
	return out, err
}

// HealthCheck verifies the upstream is reachable. Any HTTP response counts as
// healthy; only transport failures do not.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveUpstreamLatency(ctx, operation, start)
	if err != nil {
		return fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return nil
}
