// Package kvstore talks to a Cloudflare-Workers-style key-value REST API.
// The album namespace holds one JSON record per album, keyed by code.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrKeyNotFound is returned by Get when the key has no value. Callers treat
// such records as never having existed.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Client reads keys and values from one KV namespace.
type Client struct {
	APIBase     string
	AccountID   string
	NamespaceID string
	APIToken    string
	HTTPClient  *http.Client
}

func NewClient(apiBase, accountID, namespaceID, apiToken string) *Client {
	return &Client{
		APIBase:     apiBase,
		AccountID:   accountID,
		NamespaceID: namespaceID,
		APIToken:    apiToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) namespaceURL() string {
	return fmt.Sprintf("%s/accounts/%s/storage/kv/namespaces/%s", c.APIBase, c.AccountID, c.NamespaceID)
}

func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	return c.HTTPClient.Do(req)
}

type listKeysResponse struct {
	Success bool `json:"success"`
	Result  []struct {
		Name string `json:"name"`
	} `json:"result"`
	ResultInfo struct {
		Cursor string `json:"cursor"`
	} `json:"result_info"`
}

// ListKeys enumerates every key in the namespace, following the list API's
// cursor until exhausted.
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	cursor := ""
	for {
		listURL := c.namespaceURL() + "/keys"
		if cursor != "" {
			listURL += "?cursor=" + url.QueryEscape(cursor)
		}

		resp, err := c.do(ctx, listURL)
		if err != nil {
			return nil, fmt.Errorf("kvstore: listing keys: %w", err)
		}

		var body listKeysResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("kvstore: decoding key list: %w", decodeErr)
		}
		if resp.StatusCode != http.StatusOK || !body.Success {
			return nil, fmt.Errorf("kvstore: key list request failed with status %d", resp.StatusCode)
		}

		for _, k := range body.Result {
			keys = append(keys, k.Name)
		}

		cursor = body.ResultInfo.Cursor
		if cursor == "" {
			return keys, nil
		}
	}
}

// Get fetches the raw value stored under key. A missing key yields
// ErrKeyNotFound.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.do(ctx, c.namespaceURL()+"/values/"+url.PathEscape(key))
	if err != nil {
		return nil, fmt.Errorf("kvstore: fetching %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrKeyNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kvstore: fetching %s failed with status %d", key, resp.StatusCode)
	}

	value, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kvstore: reading %s: %w", key, err)
	}
	return value, nil
}
