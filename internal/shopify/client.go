package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
)

const DefaultAPIVersion = "2024-01"

var (
	ErrNotConfigured = apperr.New(apperr.KindUpstream, "shopify_not_configured", "Shopify credentials are not configured")
	ErrUpstream      = apperr.New(apperr.KindUpstream, "shopify_upstream", "Failed to fetch data from Shopify")
	ErrGraphQL       = apperr.New(apperr.KindUpstreamRequest, "shopify_graphql", "Invalid Shopify API request")
)

type Config struct {
	Domain     string
	Token      string
	APIVersion string
	Timeout    time.Duration
	// Endpoint overrides the URL built from Domain, used against fake upstreams.
	Endpoint string
}

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      logrus.FieldLogger
}

func New(cfg Config, log logrus.FieldLogger) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.Domain != "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.Domain, cfg.APIVersion)
	}
	return &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Query runs a GraphQL document and decodes the "data" member into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.endpoint == "" || c.token == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return ErrUpstream.WithCause(errors.Wrap(err, "encode graphql request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ErrUpstream.WithCause(errors.Wrap(err, "build graphql request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Error("shopify request failed")
		return ErrUpstream.WithCause(errors.Wrap(err, "shopify request"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrUpstream.WithCause(errors.Wrap(err, "read shopify response"))
	}
	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("shopify graphql call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrUpstream.WithCause(errors.Errorf("shopify api error: %s: %s", resp.Status, truncate(raw, 512)))
	}

	var env response
	if err := json.Unmarshal(raw, &env); err != nil {
		return ErrUpstream.WithCause(errors.Wrap(err, "decode shopify response"))
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		c.log.WithField("errors", msgs).Warn("shopify graphql errors")
		return ErrGraphQL.WithCause(errors.Errorf("graphql errors: %s", strings.Join(msgs, "; ")))
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return ErrUpstream.WithCause(errors.Wrap(err, "decode graphql data"))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Querier is the slice of the client the domain packages depend on.
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]any, out any) error
}
