package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/paveroute/paveroute/pkg/monitoring"
	"github.com/paveroute/paveroute/pkg/streetview"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceDetector = "detector"

type inferenceResponse struct {
	Detections []struct {
		Class      string  `json:"class"`
		Confidence float64 `json:"confidence"`
		XMin       float64 `json:"xmin"`
		YMin       float64 `json:"ymin"`
		XMax       float64 `json:"xmax"`
		YMax       float64 `json:"ymax"`
	} `json:"detections"`
}

// Client sends images to the damage detector inference service. The
// service wraps the trained detector model behind a multipart POST
// /detect endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 120 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		log:     log,
	}
}

// Detect runs inference on one image and tags each returned detection
// with the image's metadata.
func (c *Client) Detect(ctx context.Context, meta streetview.ImageMeta, image []byte) ([]Detection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", meta.ImagePath)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", &body)
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	monitoring.ExternalRequestDuration.WithLabelValues(serviceDetector).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceDetector, "error").Inc()
		return nil, fmt.Errorf("detect request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.ExternalRequestsTotal.WithLabelValues(serviceDetector, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(errBody))
	}
	monitoring.ExternalRequestsTotal.WithLabelValues(serviceDetector, "ok").Inc()

	var decoded inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode detect response: %w", err)
	}

	dets := make([]Detection, len(decoded.Detections))
	for i, d := range decoded.Detections {
		dets[i] = Detection{
			SegmentID:  meta.SegmentID,
			Index:      meta.Index,
			Lat:        meta.Lat,
			Lng:        meta.Lng,
			Heading:    meta.Heading,
			ImagePath:  meta.ImagePath,
			Class:      d.Class,
			Confidence: d.Confidence,
			XMin:       d.XMin,
			YMin:       d.YMin,
			XMax:       d.XMax,
			YMax:       d.YMax,
		}
	}

	c.log.Debug("image scored by detector",
		zap.String("image", meta.ImagePath),
		zap.Int("detections", len(dets)))
	return dets, nil
}
