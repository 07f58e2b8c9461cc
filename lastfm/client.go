// Package lastfm looks up the monitored listener's cumulative scrobble
// count. The lookup is best effort: any failure falls back to "0" so a
// Last.fm hiccup never blocks a notification.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	userAgent      = "trackcast/1.0"

	// fallbackCount is displayed when the lookup fails for any reason.
	fallbackCount = "0"
)

type Client struct {
	apiKey     string
	username   string
	httpClient *http.Client
	baseURL    string
}

func NewClient(apiKey, username string, timeout time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		username: username,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
	}
}

// userInfoResponse is the subset of user.getInfo we read.
type userInfoResponse struct {
	User struct {
		PlayCount string `json:"playcount"`
	} `json:"user"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// TotalScrobbles returns the listener's cumulative play count as display
// text. It never fails: every error path logs a warning and returns "0".
func (c *Client) TotalScrobbles(ctx context.Context) string {
	count, err := c.fetchPlayCount(ctx)
	if err != nil {
		log.Warnf("Failed to fetch Last.fm scrobbles: %v", err)
		return fallbackCount
	}
	return count
}

func (c *Client) fetchPlayCount(ctx context.Context) (string, error) {
	params := url.Values{
		"method":  {"user.getInfo"},
		"user":    {c.username},
		"api_key": {c.apiKey},
		"format":  {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("last.fm returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("parsing user.getInfo response: %w", err)
	}
	if info.Error != 0 {
		return "", fmt.Errorf("API error %d: %s", info.Error, info.Message)
	}
	if info.User.PlayCount == "" {
		return "", fmt.Errorf("user.getInfo response missing playcount")
	}

	return info.User.PlayCount, nil
}
