// Package books looks up book metadata from the Google Books volumes API.
// Lookups are best-effort: the caller's own fields win and a failed lookup
// never blocks adding a book.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Volume is the subset of Google Books metadata the tracker uses.
type Volume struct {
	Title     string
	Author    string
	Genre     string
	PageCount int
	CoverURL  string
}

// Client queries the Google Books volumes endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Google Books client. Pass an empty baseURL and nil
// client for the defaults.
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: client}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title      string   `json:"title"`
			Authors    []string `json:"authors"`
			Categories []string `json:"categories"`
			PageCount  int      `json:"pageCount"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// LookupISBN fetches metadata for an ISBN. Returns nil without error when
// the ISBN is unknown to the API.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Volume, error) {
	q := url.Values{"q": {"isbn:" + isbn}, "maxResults": {"1"}}
	fullURL := c.baseURL + "/volumes?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("books API returned status %d", resp.StatusCode)
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(payload.Items) == 0 {
		return nil, nil
	}

	info := payload.Items[0].VolumeInfo
	v := &Volume{
		Title:     info.Title,
		Author:    strings.Join(info.Authors, ", "),
		PageCount: info.PageCount,
		CoverURL:  info.ImageLinks.Thumbnail,
	}
	if len(info.Categories) > 0 {
		v.Genre = info.Categories[0]
	}
	return v, nil
}
