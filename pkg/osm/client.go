package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// Overpass usage policy requires a descriptive User-Agent.
	DefaultUserAgent   = "paveroute/1.0"
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

	serviceOverpass = "overpass"

	cacheSize = 128
	cacheTTL  = 15 * time.Minute
)

// Client is a rate-limited, caching Overpass API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *expirable.LRU[string, []OverpassElement]
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 180 * time.Second,
		},
		// Overpass policy: at most one concurrent request, be gentle
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		cache:   expirable.NewLRU[string, []OverpassElement](cacheSize, nil, cacheTTL),
		log:     log,
	}
}

func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// QueryRoadNetwork downloads every highway way (and its nodes) inside bbox.
// Results are cached per query for repeated runs over the same area.
func (c *Client) QueryRoadNetwork(ctx context.Context, bbox BoundingBox) ([]OverpassElement, error) {
	return c.Query(ctx, RoadNetworkQuery(bbox))
}

// Query runs a raw Overpass QL query and returns the decoded elements.
func (c *Client) Query(ctx context.Context, query string) ([]OverpassElement, error) {
	if cached, ok := c.cache.Get(query); ok {
		monitoring.CacheHits.WithLabelValues(serviceOverpass).Inc()
		return cached, nil
	}
	monitoring.CacheMisses.WithLabelValues(serviceOverpass).Inc()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	monitoring.ExternalRequestDuration.WithLabelValues(serviceOverpass).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceOverpass, "error").Inc()
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceOverpass, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}
	monitoring.ExternalRequestsTotal.WithLabelValues(serviceOverpass, "ok").Inc()

	var decoded OverpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	c.log.Info("overpass query done",
		zap.Int("elements", len(decoded.Elements)),
		zap.Duration("took", time.Since(start)))

	c.cache.Add(query, decoded.Elements)
	return decoded.Elements, nil
}
