// Package sopfeed fetches the aggregated statement of poll feed.
package sopfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sopaggregator/lib/restyutil"
	"sopaggregator/lib/sop"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const DefaultEndpoint = "http://localhost:5000/sops"

var tracer = otel.Tracer("sopaggregator/sopfeed")
var meter = otel.Meter("sopaggregator/sopfeed")
var fetchCounter, _ = meter.Int64Counter(
	"sopfeed.fetches",
	metric.WithDescription("feed fetches by outcome"),
)

var (
	ErrTransport = errors.New("sopfeed: request failed")
	ErrStatus    = errors.New("sopfeed: unexpected status")
	ErrMalformed = errors.New("sopfeed: malformed response body")
)

// Feed is the body returned by the endpoint. Count is reported by the
// server and is not checked against len(Sops).
type Feed struct {
	Count       int          `json:"count"`
	LastUpdated string       `json:"lastUpdated"`
	Sops        []sop.Record `json:"sops"`
}

type ClientOptions struct {
	// defaults to DefaultEndpoint
	Endpoint string
	// zero means no timeout
	Timeout time.Duration
	// receives request transcripts while debug logging is enabled, optional
	Transcripts restyutil.InstrumentOutput
}

type Client struct {
	endpoint string
	http     *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	restyutil.InstrumentClient(client, tracer, opts.Transcripts)

	return &Client{
		endpoint: endpoint,
		http:     client,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues a single GET to the endpoint and decodes the feed. It never
// retries and never returns a partially decoded feed.
func (c *Client) Fetch(ctx context.Context) (Feed, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	feed, err := c.fetch(ctx)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrTransport):
		outcome = "transport"
	case errors.Is(err, ErrStatus):
		outcome = "status"
	case errors.Is(err, ErrMalformed):
		outcome = "malformed"
	}
	fetchCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return Feed{}, err
	}

	span.SetAttributes(
		attribute.Int("sopfeed.count", feed.Count),
		attribute.Int("sopfeed.sops", len(feed.Sops)),
	)
	if feed.Count != len(feed.Sops) {
		slog.DebugContext(
			ctx, "reported count differs from records received",
			"count", feed.Count,
			"sops", len(feed.Sops),
		)
	}
	return feed, nil
}

func (c *Client) fetch(ctx context.Context) (Feed, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.endpoint)
	if err != nil {
		return Feed{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if res.IsError() {
		return Feed{}, fmt.Errorf("%w: %s", ErrStatus, res.Status())
	}

	var feed Feed
	err = json.Unmarshal(res.Body(), &feed)
	if err != nil {
		return Feed{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return feed, nil
}
