// Package dictionary looks up pronunciation and meaning of practice words.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultEndpoint is the collegiate dictionary JSON API.
const DefaultEndpoint = "https://www.dictionaryapi.com/api/v3/references/collegiate/json"

var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("no dictionary API key configured")
	// ErrNoEntry is returned when the dictionary has no entry for the word.
	ErrNoEntry = errors.New("word not found in dictionary")
)

var markup = regexp.MustCompile(`\{[^}]*\}`)

// Entry holds the enrichment fields shown next to a practice word. Fields
// are empty when the dictionary omits them.
type Entry struct {
	Word          string
	Pronunciation string
	PartOfSpeech  string
	Definition    string
	Etymology     string
	Example       string
}

// Client queries the dictionary API.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

// New returns a client for endpoint. A non-positive timeout uses 10 seconds.
func New(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log.Named("dictionary"),
	}
}

// Lookup fetches the first entry for word.
func (c *Client) Lookup(ctx context.Context, apiKey, word string) (Entry, error) {
	if apiKey == "" {
		return Entry{}, ErrNoAPIKey
	}
	u := fmt.Sprintf("%s/%s?key=%s", c.endpoint, url.PathEscape(strings.ToLower(word)), url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("dictionary request failed", zap.String("word", word), zap.Error(err))
		return Entry{}, fmt.Errorf("failed to query dictionary: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close for response body.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("dictionary returned an error status", zap.String("word", word), zap.Int("status", resp.StatusCode))
		return Entry{}, fmt.Errorf("dictionary request failed: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read dictionary response: %w", err)
	}
	return Parse(word, body)
}

// Parse extracts the first entry from a dictionary response. A response of
// spelling suggestions (an array of strings) yields ErrNoEntry.
func Parse(word string, body []byte) (Entry, error) {
	if !gjson.ValidBytes(body) {
		return Entry{}, fmt.Errorf("invalid dictionary response")
	}
	first := gjson.GetBytes(body, "0")
	if !first.IsObject() {
		return Entry{}, ErrNoEntry
	}
	return Entry{
		Word:          word,
		Pronunciation: first.Get("hwi.prs.0.mw").String(),
		PartOfSpeech:  first.Get("fl").String(),
		Definition:    clean(first.Get("shortdef.0").String()),
		Etymology:     clean(first.Get("et.0.1").String()),
		Example:       clean(example(first)),
	}, nil
}

// example finds the first verbal illustration of the first sense.
func example(entry gjson.Result) string {
	for _, item := range entry.Get("def.0.sseq.0.0.1.dt").Array() {
		if item.Get("0").String() == "vis" {
			return item.Get("1.0.t").String()
		}
	}
	return ""
}

func clean(s string) string {
	return strings.Join(strings.Fields(markup.ReplaceAllString(s, "")), " ")
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
