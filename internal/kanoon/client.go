// Package kanoon is a client for the Indian Kanoon case-law search API.
package kanoon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"legaldraft-analyzer/internal/model"
)

const (
	DefaultBaseURL = "https://api.indiankanoon.org/search/"

	paramQuery     = "formInput"
	paramMaxCites  = "maxcites"
	paramDocTypes  = "doctypes"
	paramPublicKey = "publicKey"
	paramSignature = "signature"

	maxErrorBody = 4 << 10
)

type Config struct {
	BaseURL    string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

type Query struct {
	Text     string
	MaxCites int
	DocTypes []string
}

// Params returns the unsigned request parameters for q.
func (q Query) Params(publicKey string) map[string]string {
	return map[string]string{
		paramQuery:     q.Text,
		paramMaxCites:  strconv.Itoa(q.MaxCites),
		paramDocTypes:  strings.Join(q.DocTypes, ","),
		paramPublicKey: publicKey,
	}
}

// Document is one search hit. Fields the service omits, sends as null or
// sends with a non-string type stay nil.
type Document struct {
	CaseName     *string `json:"caseName"`
	Citation     *string `json:"citation"`
	FragmentText *string `json:"fragmentText"`
}

// Response holds hits undecoded until Matches; entries past the limit are
// never inspected.
type Response struct {
	Results []json.RawMessage `json:"results"`
}

// NewResponse builds a response from already-typed documents.
func NewResponse(docs ...Document) *Response {
	r := &Response{Results: make([]json.RawMessage, 0, len(docs))}
	for _, doc := range docs {
		raw, _ := json.Marshal(doc)
		r.Results = append(r.Results, raw)
	}
	return r
}

// Matches projects the first limit results into precedent matches.
func (r *Response) Matches(limit int) []model.PrecedentMatch {
	out := make([]model.PrecedentMatch, 0, limit)
	if r == nil {
		return out
	}
	for i, raw := range r.Results {
		if i >= limit {
			break
		}
		doc := parseDocument(raw)
		out = append(out, model.PrecedentMatch{
			Name:     doc.CaseName,
			Citation: doc.Citation,
			Fragment: doc.FragmentText,
		})
	}
	return out
}

func parseDocument(raw json.RawMessage) Document {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}
	}
	return Document{
		CaseName:     stringField(fields, "caseName"),
		Citation:     stringField(fields, "citation"),
		FragmentText: stringField(fields, "fragmentText"),
	}
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

// ServiceError is any failure talking to the search service: transport
// errors, non-2xx statuses and undecodable bodies.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("case-law search returned HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("case-law search failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a client. A nil httpClient falls back to http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

// SignedParams returns the full parameter set sent upstream, signature included.
func (c *Client) SignedParams(q Query) map[string]string {
	params := q.Params(c.cfg.PublicKey)
	params[paramSignature] = Sign(params, c.cfg.PrivateKey)
	return params
}

// Search performs one signed GET. It never retries.
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	values := url.Values{}
	for k, v := range c.SignedParams(q) {
		values.Set(k, v)
	}
	reqURL := c.cfg.BaseURL
	if strings.Contains(reqURL, "?") {
		reqURL += "&" + values.Encode()
	} else {
		reqURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("create request failed: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("decode response failed: %w", err)}
	}
	return &out, nil
}
