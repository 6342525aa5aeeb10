// Package provider defines the external ratings data source.
// The ratings API is pluggable: the service depends on the RatingsProvider
// interface, and a nil provider simply means "no external ratings".
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/bestopensors/posterbadge/internal/model"
)

// RatingsProvider fetches third-party ratings (IMDb, Rotten Tomatoes, TMDB,
// Letterboxd) for an item by its external ID.
type RatingsProvider interface {
	// Ratings returns a source-name → value mapping. Missing data is an
	// empty map with a nil error — only cancellation surfaces as an error.
	Ratings(ctx context.Context, kind model.MediaKind, externalID string) (map[string]float64, error)
}

// HTTPRatingsProvider talks to a ratings HTTP API. Non-2xx responses and
// malformed JSON degrade to "no external ratings" rather than failing the
// badge build — a poster without a rating badge beats no poster at all.
type HTTPRatingsProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPRatingsProvider creates a provider for the given API. Returns a nil
// RatingsProvider when no API key is configured — the feature is gated on the
// key, and the service treats a nil provider as "external ratings disabled".
// The interface return type keeps the nil honest: a typed-nil pointer stored
// in an interface would slip past the service's nil check.
func NewHTTPRatingsProvider(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) RatingsProvider {
	if apiKey == "" {
		return nil
	}
	return &HTTPRatingsProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ratingsResponse mirrors the API's JSON shape: a list of (source, value)
// pairs rather than an object, so unknown sources pass through untouched.
type ratingsResponse struct {
	Ratings []struct {
		Source string  `json:"source"`
		Value  float64 `json:"value"`
	} `json:"ratings"`
}

// Ratings looks up external ratings for one item.
// Route: GET {base}/ratings/{kind}/{externalID} with X-Api-Key.
func (p *HTTPRatingsProvider) Ratings(ctx context.Context, kind model.MediaKind, externalID string) (map[string]float64, error) {
	if externalID == "" {
		return map[string]float64{}, nil
	}

	// Episodes are rated under their parent show.
	lookupKind := kind.RatingsKind()

	reqURL := fmt.Sprintf("%s/ratings/%s/%s", p.baseURL, lookupKind, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return map[string]float64{}, nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("User-Agent", "posterbadge/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		// Cancellation is the one failure that must propagate: the caller
		// decides whether its deadline or its parent's cancel fired.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Debug("ratings request failed",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
		return map[string]float64{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Debug("ratings API non-2xx",
			zap.String("external_id", externalID),
			zap.Int("status", resp.StatusCode),
		)
		return map[string]float64{}, nil
	}

	// Limit read to 1MB — a ratings payload is a few hundred bytes.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return map[string]float64{}, nil
	}

	var parsed ratingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		p.logger.Debug("malformed ratings JSON",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
		return map[string]float64{}, nil
	}

	ratings := make(map[string]float64, len(parsed.Ratings))
	for _, r := range parsed.Ratings {
		ratings[r.Source] = r.Value
	}
	return ratings, nil
}
