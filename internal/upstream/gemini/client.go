package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/genai"

	"openai2gemini-go/internal/config"
	"openai2gemini-go/internal/constants"
	apperrors "openai2gemini-go/internal/errors"
)

// Client talks to the Gemini generateContent API. It is a thin transport:
// translation happens elsewhere and errors carry the upstream status and body
// for the error channel to inspect.
type Client struct {
	cfg *config.Config
	cli *http.Client
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

// New builds a client with timeouts and proxy from configuration.
func New(cfg *config.Config) *Client {
	dialTO := durationOrDefault(cfg.DialTimeoutSec, constants.DefaultDialTimeout)
	tlsTO := durationOrDefault(cfg.TLSHandshakeTimeoutSec, constants.DefaultTLSHandshakeTimeout)
	hdrTO := durationOrDefault(cfg.ResponseHeaderTimeoutSec, constants.DefaultResponseHeaderTimeout)

	tr := &http.Transport{
		Proxy: getProxyFunc(cfg.ProxyURL),
		DialContext: (&net.Dialer{
			Timeout:   dialTO,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   tlsTO,
		ResponseHeaderTimeout: hdrTO,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
		MaxIdleConns:          constants.BaseMaxIdleConns,
		MaxIdleConnsPerHost:   constants.BaseMaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Client{cfg: cfg, cli: &http.Client{Transport: tr}}
}

// getProxyFunc returns the proxy function based on configuration.
func getProxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL != "" {
		if parsedURL, err := url.Parse(proxyURL); err == nil {
			return http.ProxyURL(parsedURL)
		}
	}
	return http.ProxyFromEnvironment
}

// GenerateContent POSTs the translated request and decodes the Gemini
// response. Non-2xx statuses become an UpstreamError embedding the status and
// body.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*genai.GenerateContentResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	respBody, status, err := c.call(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &apperrors.UpstreamError{StatusCode: status, Body: string(respBody)}
	}

	var out genai.GenerateContentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	return &out, nil
}

// RawCall forwards an arbitrary v1beta call and returns the raw body and
// status. Used by the cached-content passthrough endpoints.
func (c *Client) RawCall(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	return c.call(ctx, method, path, body)
}

func (c *Client) call(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.GeminiEndpoint+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.GeminiAPIKey != "" {
		req.Header.Set("x-goog-api-key", c.cfg.GeminiAPIKey)
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}
