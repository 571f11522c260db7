// Package tentapi is the client side of the tentcards backend HTTP API.
package tentapi

//go:generate mockgen -destination=mock/mock_client.go -package=tentapimock github.com/KirkDiggler/tentcards/internal/clients/tentapi Client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/pkg/httpclient"
)

const (
	// DefaultTimeout bounds ordinary requests; generation calls are bounded
	// by their caller's context instead
	DefaultTimeout = 3 * time.Minute

	maxErrorBody = 64 << 10
)

// Client talks to a tentcards backend. Every image URL it returns or sends
// has been resolved against the backend base URL.
type Client interface {
	GenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error)
	RegenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error)
	SaveMonsterImage(ctx context.Context, monsterName, imageURL string) (*entities.SavedImage, error)
	ImageSnapshot(ctx context.Context) (map[string]string, error)
	SearchMonsters(ctx context.Context, query string, limit int) (*SearchResult, error)
	GetMonster(ctx context.Context, key string) (*entities.Monster, error)
	RecordEvent(ctx context.Context, event string) (int64, error)
	Health(ctx context.Context) error
	FetchImage(ctx context.Context, locator string) ([]byte, string, error)
}

// SearchResult is one page of monster search hits
type SearchResult struct {
	Monsters []entities.Monster `json:"monsters"`
	Total    int                `json:"total"`
}

// Config holds the configuration for the API client
type Config struct {
	BaseURL string
	// HTTPClient defaults to an httpkit client with DefaultTimeout
	HTTPClient httpclient.Doer
}

// Validate ensures the base URL is absolute
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if strings.TrimSpace(c.BaseURL) == "" {
		vb.RequiredField("BaseURL")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		vb.InvalidField("BaseURL", "must be an absolute http(s) URL")
	}

	return vb.Build()
}

type client struct {
	base *url.URL
	http httpclient.Doer
}

// NewClient creates a new backend API client
func NewClient(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	base, _ := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(DefaultTimeout)
	}

	return &client{base: base, http: httpClient}, nil
}

type monsterNameRequest struct {
	MonsterName string `json:"monsterName"`
}

type saveRequest struct {
	MonsterName string `json:"monsterName"`
	ImageURL    string `json:"imageUrl"`
}

func (c *client) GenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error) {
	return c.generate(ctx, "api/generate-monster-image", monsterName)
}

func (c *client) RegenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error) {
	return c.generate(ctx, "api/regenerate-monster-image", monsterName)
}

func (c *client) generate(ctx context.Context, path, monsterName string) (*entities.GeneratedImage, error) {
	if strings.TrimSpace(monsterName) == "" {
		return nil, errors.InvalidArgument("monster name is required")
	}

	var out entities.GeneratedImage
	if err := c.do(ctx, http.MethodPost, path, monsterNameRequest{MonsterName: monsterName}, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.URL) == "" {
		return nil, errors.Internalf("backend returned no image url for %s", monsterName)
	}
	out.URL = c.resolve(out.URL)

	return &out, nil
}

func (c *client) SaveMonsterImage(ctx context.Context, monsterName, imageURL string) (*entities.SavedImage, error) {
	if strings.TrimSpace(monsterName) == "" {
		return nil, errors.InvalidArgument("monster name is required")
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, errors.InvalidArgument("image url is required")
	}

	req := saveRequest{MonsterName: monsterName, ImageURL: c.resolve(imageURL)}
	var out entities.SavedImage
	if err := c.do(ctx, http.MethodPost, "api/save-monster-image", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.Internalf("backend did not save image for %s", monsterName)
	}

	return &out, nil
}

func (c *client) ImageSnapshot(ctx context.Context) (map[string]string, error) {
	var out struct {
		Images map[string]string `json:"images"`
	}
	if err := c.do(ctx, http.MethodGet, "api/monster-images", nil, &out); err != nil {
		return nil, err
	}

	snapshot := make(map[string]string, len(out.Images))
	for name, locator := range out.Images {
		snapshot[name] = c.resolve(locator)
	}
	return snapshot, nil
}

func (c *client) SearchMonsters(ctx context.Context, query string, limit int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out SearchResult
	if err := c.do(ctx, http.MethodGet, "api/monsters?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetMonster(ctx context.Context, key string) (*entities.Monster, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.InvalidArgument("monster key is required")
	}

	var out struct {
		Monster *entities.Monster `json:"monster"`
	}
	if err := c.do(ctx, http.MethodGet, "api/monsters/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	if out.Monster == nil {
		return nil, errors.NotFoundf("monster %s not found", key)
	}
	return out.Monster, nil
}

func (c *client) RecordEvent(ctx context.Context, event string) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodPost, "api/analytics", map[string]string{"event": event}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "api/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return errors.Unavailablef("backend reported status %q", out.Status)
	}
	return nil
}

// FetchImage downloads an image, typically one served by the backend blob route
func (c *client) FetchImage(ctx context.Context, locator string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(locator), nil)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid image url")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeUnavailable, "image fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errors.FromHTTPStatus(resp.StatusCode, fmt.Sprintf("image fetch returned %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read image")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// resolve turns a backend-relative path into an absolute URL. Absolute URLs
// and inline data URIs pass through unchanged.
func (c *client) resolve(locator string) string {
	locator = strings.TrimSpace(locator)
	if locator == "" || strings.HasPrefix(locator, "data:") {
		return locator
	}
	ref, err := url.Parse(locator)
	if err != nil || ref.IsAbs() {
		return locator
	}
	return c.base.ResolveReference(ref).String()
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	target := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("Backend request failed", "method", method, "url", target, "error", err)
		return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("%s %s failed", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errors.Body
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if jsonErr := json.Unmarshal(raw, &envelope); jsonErr != nil || envelope.Error == "" {
			envelope.Error = strings.TrimSpace(string(raw))
		}
		return errors.FromHTTPStatus(resp.StatusCode, envelope.Error).
			WithMeta("method", method).
			WithMeta("path", path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}
