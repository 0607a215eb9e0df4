package filemaker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/digimidich/fmp-query-ai/config"
	"github.com/digimidich/fmp-query-ai/logging"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultContentType = "application/json"

var (
	// ErrMissingCredential is returned before any network call when no FileMaker credential is configured.
	ErrMissingCredential = errors.New("FileMaker credentials not set (FM_USERNAME/FM_PASSWORD)")
	// ErrUpstream wraps transport failures talking to FileMaker.
	ErrUpstream = errors.New("upstream error")
)

var log = logging.GetLogger()

// Client posts script parameters to a FileMaker OData script endpoint.
type Client struct {
	scriptURL     string
	authorization string
	httpClient    *http.Client
}

// NewClient creates a Client for the configured script URL and credential.
func NewClient(cfg config.FileMakerConfig) *Client {
	return &Client{
		scriptURL:     cfg.ScriptURL,
		authorization: authorizationHeader(cfg),
		httpClient: &http.Client{
			Timeout: cfg.Timeout, // zero keeps the platform default
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// authorizationHeader prefers the username/password pair and falls back to the
// deprecated pre-encoded value. It returns "" when neither is set.
func authorizationHeader(cfg config.FileMakerConfig) string {
	if cfg.Username != "" {
		raw := cfg.Username + ":" + cfg.Password
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
	}
	if cfg.AuthB64 != "" {
		return "Basic " + cfg.AuthB64
	}
	return ""
}

// CheckCredentials reports ErrMissingCredential when Forward could never succeed.
func (c *Client) CheckCredentials() error {
	if c.authorization == "" {
		return ErrMissingCredential
	}
	return nil
}

// Forward runs the script with the given payload and returns the upstream status,
// content type and body exactly as received. Non-2xx statuses are not errors.
func (c *Client) Forward(ctx context.Context, payload UpstreamPayload) (*Result, error) {
	if err := c.CheckCredentials(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization)

	log.Debugf("→ FileMaker %s | data=%s", c.scriptURL, body)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUpstream, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	log.Debugf("← FileMaker %d | %d bytes | %s", resp.StatusCode, len(respBody), time.Since(start))
	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        respBody,
	}, nil
}
