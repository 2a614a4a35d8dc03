// Package api wraps the optional third-party HTTP endpoints the bot
// surfaces as commands: dadjoke, uwuify, urban dictionary, weather and
// paste. Responses for repeat queries are cached in-process.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

const (
	cacheSize   = 256
	cacheExpiry = 10 * time.Minute
)

type cachedResponse struct {
	value     any
	timestamp time.Time
}

type Client struct {
	http          *http.Client
	cache         *lru.Cache
	weatherAPIKey string
}

func NewClient(weatherAPIKey string) *Client {
	cache, _ := lru.New(cacheSize)
	return &Client{
		http:          &http.Client{Timeout: 10 * time.Second},
		cache:         cache,
		weatherAPIKey: weatherAPIKey,
	}
}

func (c *Client) cached(key string) (any, bool) {
	if v, ok := c.cache.Get(key); ok {
		entry := v.(cachedResponse)
		if time.Since(entry.timestamp) < cacheExpiry {
			return entry.value, true
		}
		c.cache.Remove(key)
	}
	return nil, false
}

func (c *Client) store(key string, value any) {
	c.cache.Add(key, cachedResponse{value: value, timestamp: time.Now()})
}

// getJSON issues the request and decodes into out. Any transport or
// non-2xx failure comes back as an upstream error.
func (c *Client) getJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errs.Wrap(errs.Fatal, err, "bad request")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.Upstream, err, "service unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.New(errs.Upstream, "service returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(errs.Upstream, err, "bad response body")
	}
	return nil
}

// DadJoke fetches one random joke. Never cached; randomness is the
// point.
func (c *Client) DadJoke(ctx context.Context) (string, error) {
	var body struct {
		Joke string `json:"joke"`
	}
	if err := c.getJSON(ctx, "https://icanhazdadjoke.com/", nil, &body); err != nil {
		return "", err
	}
	return body.Joke, nil
}

// Uwuify mangles the text through the uwuify endpoint.
func (c *Client) Uwuify(ctx context.Context, text string) (string, error) {
	key := "uwu:" + text
	if v, ok := c.cached(key); ok {
		return v.(string), nil
	}
	var body struct {
		Uwu string `json:"uwu"`
	}
	endpoint := "https://uwu.pm/api/v1/uwu?text=" + url.QueryEscape(text)
	if err := c.getJSON(ctx, endpoint, nil, &body); err != nil {
		return "", err
	}
	c.store(key, body.Uwu)
	return body.Uwu, nil
}

// UrbanEntry is one urban dictionary definition.
type UrbanEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ThumbsUp   int    `json:"thumbs_up"`
	Permalink  string `json:"permalink"`
}

// Urban looks the term up on urban dictionary.
func (c *Client) Urban(ctx context.Context, term string) ([]UrbanEntry, error) {
	key := "urban:" + strings.ToLower(term)
	if v, ok := c.cached(key); ok {
		return v.([]UrbanEntry), nil
	}
	var body struct {
		List []UrbanEntry `json:"list"`
	}
	endpoint := "https://api.urbandictionary.com/v0/define?term=" + url.QueryEscape(term)
	if err := c.getJSON(ctx, endpoint, nil, &body); err != nil {
		return nil, err
	}
	if len(body.List) == 0 {
		return nil, errs.New(errs.NotFound, "no definition for %q", term)
	}
	c.store(key, body.List)
	return body.List, nil
}

// Weather is the trimmed-down current-conditions report.
type Weather struct {
	Location  string  `json:"location"`
	Condition string  `json:"condition"`
	TempC     float64 `json:"temp_c"`
	TempF     float64 `json:"temp_f"`
	Humidity  int     `json:"humidity"`
	WindKph   float64 `json:"wind_kph"`
}

// CurrentWeather asks weatherapi.com for the current conditions.
func (c *Client) CurrentWeather(ctx context.Context, location string) (*Weather, error) {
	if c.weatherAPIKey == "" {
		return nil, errs.New(errs.Precondition, "no weather API key configured")
	}
	key := "weather:" + strings.ToLower(location)
	if v, ok := c.cached(key); ok {
		return v.(*Weather), nil
	}

	var body struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			TempF     float64 `json:"temp_f"`
			Humidity  int     `json:"humidity"`
			WindKph   float64 `json:"wind_kph"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	endpoint := fmt.Sprintf("https://api.weatherapi.com/v1/current.json?key=%s&q=%s",
		c.weatherAPIKey, url.QueryEscape(location))
	if err := c.getJSON(ctx, endpoint, nil, &body); err != nil {
		return nil, err
	}

	weather := &Weather{
		Location:  body.Location.Name + ", " + body.Location.Country,
		Condition: body.Current.Condition.Text,
		TempC:     body.Current.TempC,
		TempF:     body.Current.TempF,
		Humidity:  body.Current.Humidity,
		WindKph:   body.Current.WindKph,
	}
	c.store(key, weather)
	return weather, nil
}

// Paste uploads text to a paste service and returns the link. Used by
// the log pipeline fallback and the report command.
func (c *Client) Paste(ctx context.Context, content string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://paste.mod.gg/documents",
		bytes.NewReader([]byte(content)))
	if err != nil {
		return "", errs.Wrap(errs.Fatal, err, "bad request")
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.Upstream, err, "paste service unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.New(errs.Upstream, "paste service returned %s", resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(errs.Upstream, err, "bad response body")
	}
	var body struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Key == "" {
		return "", errs.New(errs.Upstream, "paste service returned an unexpected body")
	}
	return "https://paste.mod.gg/" + body.Key, nil
}
