// Package telegram resolves foreign file identifiers against a Bot-API-style
// file-hosting service: a metadata lookup turns the identifier into a path,
// then the file is fetched from its download endpoint.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mtcweb/gallerybackend/models"
)

// Client performs the two-step file resolution. HTTPClient deliberately has
// no overall timeout: the second fetch streams arbitrarily large video
// bodies and is bounded by the request context instead.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{},
	}
}

type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// ResolveFilePath looks up the storage path for a file identifier. A
// response without a usable path maps to ErrUpstreamInvalid; a transport or
// decoding failure maps to ErrProxyFailure.
func (c *Client) ResolveFilePath(ctx context.Context, fileID string) (string, error) {
	if c.Token == "" {
		return "", fmt.Errorf("%w: no bot token configured", models.ErrProxyFailure)
	}

	metaURL := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.BaseURL, c.Token, url.QueryEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metaURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProxyFailure, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProxyFailure, err)
	}
	defer resp.Body.Close()

	var meta getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProxyFailure, err)
	}
	if resp.StatusCode != http.StatusOK || !meta.OK || meta.Result.FilePath == "" {
		return "", models.ErrUpstreamInvalid
	}
	return meta.Result.FilePath, nil
}

// FetchFile streams the resolved file, forwarding the caller's Range header
// when present. The caller owns the response body.
func (c *Client) FetchFile(ctx context.Context, filePath, rangeHeader string) (*http.Response, error) {
	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.BaseURL, c.Token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProxyFailure, err)
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProxyFailure, err)
	}
	return resp, nil
}
