// Package client is a typed HTTP client for the session server.
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

	"github.com/pkg/errors"

	"othello/communication"
	"othello/game"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL. A nil httpClient uses one
// with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) State(ctx context.Context) (communication.StateResponse, error) {
	var state communication.StateResponse
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &state)
	return state, err
}

func (c *Client) Start(ctx context.Context, req communication.StartRequest) (communication.StateResponse, error) {
	var state communication.StateResponse
	err := c.do(ctx, http.MethodPost, "/api/start", req, &state)
	return state, err
}

// NextMove advances the session. move is only used on a human turn.
func (c *Client) NextMove(ctx context.Context, move *game.Position) (communication.StateResponse, error) {
	var req communication.NextMoveRequest
	if move != nil {
		coord := communication.CoordOf(*move)
		req.Move = &coord
	}
	var state communication.StateResponse
	err := c.do(ctx, http.MethodPost, "/api/next-move", req, &state)
	return state, err
}

func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/reset", nil, nil)
}

func (c *Client) Preview(ctx context.Context, move game.Position) (communication.PreviewResponse, error) {
	q := url.Values{}
	q.Set("row", fmt.Sprint(move.Row))
	q.Set("col", fmt.Sprint(move.Col))
	var preview communication.PreviewResponse
	err := c.do(ctx, http.MethodGet, "/api/preview?"+q.Encode(), nil, &preview)
	return preview, err
}

func (c *Client) Strategies(ctx context.Context) ([]string, error) {
	var resp communication.StrategiesResponse
	err := c.do(ctx, http.MethodGet, "/api/strategies", nil, &resp)
	return resp.Strategies, err
}

// BoardPNG downloads the rendered board.
func (c *Client) BoardPNG(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/board.png", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get board image")
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	return data, errors.Wrap(err, "read board image")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body communication.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
