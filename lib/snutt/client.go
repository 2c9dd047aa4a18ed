package snutt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/metrics"
)

const searchPath = "/v1/search_query"

type ClientConfig struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Timeout     time.Duration
	PageSize    int
	MaxPages    int
}

// UpstreamError carries a hard upstream failure (5xx) together with
// the raw response body for diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 120 {
		body = body[:120]
	}
	return "upstream status " + strconv.Itoa(e.Status) + ": " + body
}

type Client struct {
	client *http.Client
	cfg    ClientConfig
	logger *logrus.Entry
}

func createTransport() http.RoundTripper {
	// http.DefaultTransport options
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func NewClient(cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	return &Client{
		client: &http.Client{
			Transport: createTransport(),
			Timeout:   cfg.Timeout,
		},
		cfg:    cfg,
		logger: logging.GetLogger("snutt"),
	}
}

type searchResponse struct {
	Status int
	Body   []byte
	IsJSON bool
}

func (c *Client) searchQuery(ctx context.Context, body map[string]any) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("x-access-apikey", c.cfg.APIKey)
	req.Header.Set("x-access-token", c.cfg.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.With(map[string]string{"status": "error"}).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.With(map[string]string{"status": strconv.Itoa(resp.StatusCode / 100 * 100)}).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	isJson := strings.Contains(resp.Header.Get("Content-Type"), "application/json") && json.Valid(raw)

	return &searchResponse{Status: resp.StatusCode, Body: raw, IsJSON: isJson}, nil
}
