package xunlei

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"subfetch/internal/fingerprint"
)

const (
	defaultBaseURL     = "http://sub.xmp.sandai.net:8000/subxl"
	defaultUserAgent   = "subfetch/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxPayloadBytes    = 16 << 20
)

// StatusError reports a non-success HTTP response from the index.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("xunlei: %s failed (%s): %s", e.Op, e.Status, e.Body)
}

func newStatusError(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

// Config describes the subtitle index client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client wraps the Xunlei subtitle index.
type Client struct {
	userAgent string
	baseURL   *url.URL
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("xunlei: parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("xunlei: base url %q must be absolute", base)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		userAgent: userAgent,
		baseURL:   baseURL,
		http:      client,
	}, nil
}

// BaseURL reports the index endpoint the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Subtitle represents a subtitle candidate returned by the index.
type Subtitle struct {
	ID       string
	Name     string
	Language string
	Rate     string
	URL      string
	Votes    int
	Offset   int64
}

// SearchResponse bundles the subtitles listed for a fingerprint.
type SearchResponse struct {
	Subtitles []Subtitle
}

// Search lists the subtitles the index knows for the content fingerprint cid.
// An unknown fingerprint yields an empty response rather than an error.
func (c *Client) Search(ctx context.Context, cid string) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, errors.New("xunlei: client is nil")
	}
	cid = strings.TrimSpace(cid)
	if !fingerprint.Valid(cid) {
		return SearchResponse{}, fmt.Errorf("xunlei: invalid fingerprint %q", cid)
	}
	endpoint := c.baseURL.JoinPath(cid + ".json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("xunlei: build search request: %w", err)
	}
	c.applyHeaders(httpReq)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("xunlei: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return SearchResponse{}, nil
	}
	if resp.StatusCode >= 400 {
		return SearchResponse{}, newStatusError("search", resp)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("xunlei: decode search response: %w", err)
	}

	subtitles := make([]Subtitle, 0, len(payload.Sublist))
	for _, entry := range payload.Sublist {
		link := strings.TrimSpace(string(entry.SURL))
		if link == "" {
			continue
		}
		votes, _ := strconv.Atoi(string(entry.SVote))
		offset, _ := strconv.ParseInt(string(entry.ROffset), 10, 64)
		subtitles = append(subtitles, Subtitle{
			ID:       string(entry.SCID),
			Name:     string(entry.SName),
			Language: string(entry.Language),
			Rate:     string(entry.Rate),
			URL:      link,
			Votes:    votes,
			Offset:   offset,
		})
	}
	return SearchResponse{Subtitles: subtitles}, nil
}

// Download retrieves the subtitle payload at link.
func (c *Client) Download(ctx context.Context, link string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("xunlei: client is nil")
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, errors.New("xunlei: download url is empty")
	}
	target, err := c.baseURL.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("xunlei: parse download url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("xunlei: build download request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xunlei: fetch subtitle payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, newStatusError("subtitle download", resp)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("xunlei: read subtitle data: %w", err)
	}
	if len(data) > maxPayloadBytes {
		return nil, fmt.Errorf("xunlei: subtitle payload exceeds %d bytes", maxPayloadBytes)
	}
	return data, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
}

type searchResponse struct {
	Sublist []searchEntry `json:"sublist"`
}

type searchEntry struct {
	SCID     looseString `json:"scid"`
	SName    looseString `json:"sname"`
	Language looseString `json:"language"`
	Rate     looseString `json:"rate"`
	SURL     looseString `json:"surl"`
	SVote    looseString `json:"svote"`
	ROffset  looseString `json:"roffset"`
}

// looseString accepts JSON strings, numbers, and null. The index is not
// consistent about quoting numeric fields.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = looseString(strings.TrimSpace(value))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*s = looseString(number.String())
	return nil
}
