package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// HTTPGateway implements CookieGateway against the session-cookie HTTP
// surface. The underlying client carries a cookie jar so the encrypted
// session cookie rides along automatically, the way a browser would send it.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Timeout: 10 * time.Second, Jar: jar}
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (g *HTTPGateway) Current(ctx context.Context) (*sessioncookie.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/session-cookie", nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope struct {
			Data *sessioncookie.Payload `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, err
		}
		if envelope.Data == nil {
			return nil, sessioncookie.ErrNoSession
		}
		return envelope.Data, nil
	case http.StatusNoContent, http.StatusNotFound, http.StatusUnauthorized:
		return nil, sessioncookie.ErrNoSession
	default:
		return nil, fmt.Errorf("session gateway: unexpected status %d", resp.StatusCode)
	}
}

func (g *HTTPGateway) Save(ctx context.Context, p sessioncookie.Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/session-cookie", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("session gateway: save returned %d", resp.StatusCode)
	}
	return nil
}

func (g *HTTPGateway) Clear(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/logout", nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized {
		return errors.New("session gateway: logout failed")
	}
	return nil
}
