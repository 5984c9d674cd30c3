package qaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "http://127.0.0.1:5800/api"

// maxResponseBytes caps how much of an answer body is read
const maxResponseBytes = 8 << 20

// ErrMalformedResponse is returned when a 2xx body is not JSON or lacks a string "data" field.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError reports a non-2xx answer from the backend
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %s", e.Status)
}

type askRequest struct {
	Message string `json:"message"`
}

type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient builds a client for endpoint. A nil httpClient means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid Q&A endpoint: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid Q&A endpoint %q: scheme must be http or https", endpoint)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		client:   httpClient,
		endpoint: parsedURL.String(),
	}, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask posts one question and returns the "data" markup of the answer.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(askRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return ParseAnswer(raw)
}

// ParseAnswer extracts the "data" string from an answer body.
func ParseAnswer(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}

	data := gjson.GetBytes(raw, "data")
	if !data.Exists() {
		return "", fmt.Errorf("%w: missing \"data\" field", ErrMalformedResponse)
	}
	if data.Type != gjson.String {
		return "", fmt.Errorf("%w: \"data\" is %s, not a string", ErrMalformedResponse, data.Type)
	}

	return data.String(), nil
}
