package streetview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paveroute/paveroute/pkg/monitoring"
	"golang.org/x/time/rate"
)

const (
	DefaultStaticAPIURL = "https://maps.googleapis.com/maps/api/streetview"

	serviceStreetView = "streetview"

	imageSize = "640x640"
	imageFOV  = "90"
	// camera points straight ahead, the road surface fills the lower
	// half of the frame
	imagePitch = "0"
)

// Client fetches Street View Static API images.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultStaticAPIURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(25), 25),
	}
}

// Fetch downloads the image for one camera point and returns the raw
// jpeg bytes.
func (c *Client) Fetch(ctx context.Context, p ImagePoint) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("size", imageSize)
	q.Set("location", fmt.Sprintf("%f,%f", p.Lat, p.Lng))
	q.Set("heading", fmt.Sprintf("%g", p.Heading))
	q.Set("fov", imageFOV)
	q.Set("pitch", imagePitch)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build street view request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	monitoring.ExternalRequestDuration.WithLabelValues(serviceStreetView).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceStreetView, "error").Inc()
		return nil, fmt.Errorf("street view request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceStreetView, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("street view returned status %d: %s", resp.StatusCode, string(body))
	}
	monitoring.ExternalRequestsTotal.WithLabelValues(serviceStreetView, "ok").Inc()

	return io.ReadAll(resp.Body)
}
