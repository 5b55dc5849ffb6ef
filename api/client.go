package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/die-net/lrucache"
	"github.com/gregjones/httpcache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	maxHTTPCacheSize = 32 * 1024 * 1024 // 32MB
	maxHTTPCacheAge  = 24 * time.Hour

	requestTimeout = 15 * time.Second

	apiLogCategory = "api_client"
)

// Client is the typed surface over the Fikiri backend REST API. It layers an
// HTTP response cache on the transport so conditional requests are answered
// locally when the backend allows it; the fetch cache above this client is
// what views actually read through.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	transport := httpcache.NewTransport(
		lrucache.New(maxHTTPCacheSize, int64(maxHTTPCacheAge/time.Second)))

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
	}
}

// NewWithHTTPClient is for tests and embedders that bring their own client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON performs a read with at most one automatic retry on transient
// failure. Mutations never go through here.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	err := c.doJSON(ctx, http.MethodGet, path, nil, out)
	if err == nil || !isTransient(err) {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"category": apiLogCategory,
		"code":     "read_retry",
		"path":     path,
	}).WithError(err).Warn("Read failed, retrying once")

	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// postJSON and patchJSON are never retried to avoid duplicate side effects
// such as double-charging or double-sending an email.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "Failed to encode %s %s body", method, path)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "Failed to build %s %s request", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Request %s %s failed", method, path)
	}
	defer func() {
		io.Copy(ioutil.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.WithStack(&StatusError{Status: resp.StatusCode, Path: path})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "Failed to decode %s %s response", method, path)
	}
	return nil
}
