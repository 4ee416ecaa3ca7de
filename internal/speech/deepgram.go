// Package speech wraps the Deepgram speech-to-text call. A failed call yields
// an empty transcript, not an error: the caller treats "no text" uniformly
// whether the user was silent or the service was unreachable.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"unposted/internal/config"
	"unposted/internal/errors"
)

// DefaultBaseURL is the Deepgram API endpoint.
const DefaultBaseURL = "https://api.deepgram.com"

// Client calls the Deepgram pre-recorded transcription API.
type Client struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	apiKey string
	http   *http.Client
}

// NewClient creates a transcription client. Returns nil when the credential is
// absent; a nil client reports CONFIG_MISSING from Transcribe.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// listenResponse mirrors the fields we read from Deepgram's response.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends raw audio bytes and returns the best-effort transcript.
// English-only, smart formatting on. Remote failures are logged and produce an
// empty transcript; only a missing credential is surfaced as an error.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if c == nil {
		return "", errors.NewConfigMissing(config.EnvDeepgramKey)
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	params := url.Values{
		"model":        {"nova-2-general"},
		"smart_format": {"true"},
		"language":     {"en"},
	}
	endpoint := fmt.Sprintf("%s/v1/listen?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		log.Printf("deepgram: build request: %v", err)
		return "", nil
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("deepgram: request failed: %v", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("deepgram: http %d", resp.StatusCode)
		return "", nil
	}

	var decoded listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Printf("deepgram: decode failed: %v", err)
		return "", nil
	}

	channels := decoded.Results.Channels
	if len(channels) == 0 || len(channels[0].Alternatives) == 0 {
		return "", nil
	}
	return channels[0].Alternatives[0].Transcript, nil
}
