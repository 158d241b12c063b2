package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	serviceElevation = "elevation"

	httpCacheSize = 16384
	// open-elevation style services cap batch sizes around this
	maxBatchSize = 512
)

type lookupRequest struct {
	Locations []lookupLocation `json:"locations"`
}

type lookupLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// HTTPProvider queries a remote open-elevation compatible lookup
// service in batches. Resolved points are cached so re-annotating the
// same area stays cheap.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *lru.Cache[geo.Coordinate, float64]
	log        *zap.Logger
}

func NewHTTPProvider(baseURL string, log *zap.Logger) (*HTTPProvider, error) {
	cache, err := lru.New[geo.Coordinate, float64](httpCacheSize)
	if err != nil {
		return nil, err
	}
	return &HTTPProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
		cache:   cache,
		log:     log,
	}, nil
}

func (p *HTTPProvider) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	elevs, err := p.Elevations(ctx, []geo.Coordinate{{Lat: lat, Lon: lon}})
	if err != nil {
		return 0, err
	}
	return elevs[0], nil
}

func (p *HTTPProvider) Elevations(ctx context.Context, points []geo.Coordinate) ([]float64, error) {
	out := make([]float64, len(points))
	misses := make([]int, 0)
	for i, pt := range points {
		if elev, ok := p.cache.Get(pt); ok {
			monitoring.CacheHits.WithLabelValues(serviceElevation).Inc()
			out[i] = elev
			continue
		}
		monitoring.CacheMisses.WithLabelValues(serviceElevation).Inc()
		misses = append(misses, i)
	}

	for start := 0; start < len(misses); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		elevs, err := p.lookup(ctx, points, batch)
		if err != nil {
			return nil, err
		}
		for j, idx := range batch {
			out[idx] = elevs[j]
			p.cache.Add(points[idx], elevs[j])
		}
	}
	return out, nil
}

func (p *HTTPProvider) lookup(ctx context.Context, points []geo.Coordinate, batch []int) ([]float64, error) {
	reqBody := lookupRequest{Locations: make([]lookupLocation, len(batch))}
	for j, idx := range batch {
		reqBody.Locations[j] = lookupLocation{Latitude: points[idx].Lat, Longitude: points[idx].Lon}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build elevation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	monitoring.ExternalRequestDuration.WithLabelValues(serviceElevation).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceElevation, "error").Inc()
		return nil, fmt.Errorf("elevation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceElevation, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("elevation service returned status %d: %s", resp.StatusCode, string(body))
	}
	monitoring.ExternalRequestsTotal.WithLabelValues(serviceElevation, "ok").Inc()

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode elevation response: %w", err)
	}
	if len(decoded.Results) != len(batch) {
		return nil, fmt.Errorf("elevation service returned %d results for %d locations",
			len(decoded.Results), len(batch))
	}

	elevs := make([]float64, len(batch))
	for j, r := range decoded.Results {
		elevs[j] = r.Elevation
	}

	p.log.Debug("elevation lookup done",
		zap.Int("locations", len(batch)),
		zap.Duration("took", time.Since(start)))
	return elevs, nil
}
