package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPClient implements Client against a remote identity upstream.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (c *HTTPClient) IssueIdentity(ctx context.Context) (Identity, error) {
	var id Identity
	err := c.post(ctx, "/identities", nil, &id)
	return id, err
}

func (c *HTTPClient) Register(ctx context.Context, id Identity) (Credentials, error) {
	var creds Credentials
	err := c.post(ctx, "/register", id, &creds)
	return creds, err
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	var creds Credentials
	err := c.post(ctx, "/token/refresh", map[string]string{"refresh": refreshToken}, &creds)
	return creds, err
}

func (c *HTTPClient) post(ctx context.Context, path string, body, dest any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("identity: upstream returned %d for %s", resp.StatusCode, path)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
