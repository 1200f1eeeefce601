package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

const requestTimeout = 12 * time.Second

// HTTPClient talks to the record server over HTTP and WebSocket.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	dialer  *websocket.Dialer
}

// NewHTTPClient builds a client for an endpoint like "http://127.0.0.1:8080".
func NewHTTPClient(endpointURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(endpointURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		dialer:  websocket.DefaultDialer,
	}
}

func (c *HTTPClient) List(ctx context.Context) ([]models.Record, error) {
	var list []models.Record
	if err := c.do(ctx, http.MethodGet, "/api/records", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Create(ctx context.Context, p models.RecordPayload) (*models.Record, error) {
	var rec models.Record
	if err := c.do(ctx, http.MethodPost, "/api/records", p, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, p models.RecordPayload) error {
	return c.do(ctx, http.MethodPut, "/api/records/"+id, p, nil)
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/records/"+id, nil, nil)
}

// Watch dials the watch endpoint and pumps snapshots into the returned
// channel from a reader goroutine. Exactly one goroutine mutates nothing and
// only sends; the single consumer owns the mirror.
func (c *HTTPClient) Watch(ctx context.Context) (<-chan WatchEvent, error) {
	url := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/records/watch"

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	events := make(chan WatchEvent)

	// unblock the read loop when the subscription is torn down
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go func() {
		defer close(events)
		for {
			var snap models.Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case events <- WatchEvent{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case events <- WatchEvent{Records: snap.Records}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) mapStatus(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, body.Error)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Error)
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s", ErrUnavailable, body.Error)
		}
		return fmt.Errorf("request rejected: %s", body.Error)
	}
}
