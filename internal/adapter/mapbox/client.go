package mapbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// maxImageBytes bounds a static image response body.
const maxImageBytes = 8 << 20

// Client implements domain.StaticMapper using the Mapbox Static Images API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox static image client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/styles/v1",
		metrics: metrics,
		logger:  logger,
	}
}

// StaticMap fetches a PNG of the requested view with one pin per marker.
func (c *Client) StaticMap(ctx context.Context, req domain.StaticMapRequest) ([]byte, error) {
	u := c.baseURL + "/" + imagePath(req) + "?" + url.Values{"access_token": {c.token}}.Encode()

	start := time.Now()
	img, err := c.doRequest(ctx, u)
	c.metrics.StaticMapAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.StaticMapRequests.WithLabelValues("error").Inc()
		c.logger.Warn("static map request failed", "style", req.Style, "markers", len(req.Markers), "error", err)
		return nil, err
	}
	c.metrics.StaticMapRequests.WithLabelValues("success").Inc()
	return img, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("static map request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(img) > maxImageBytes {
		return nil, fmt.Errorf("read image: body exceeds %d bytes", maxImageBytes)
	}
	return img, nil
}

// imagePath renders everything after the API base except the token:
// {style}/static/{overlay}/{lon},{lat},{zoom},{bearing},{pitch}/{w}x{h}.
// It doubles as the cache key.
func imagePath(req domain.StaticMapRequest) string {
	var b strings.Builder
	b.WriteString(req.Style)
	b.WriteString("/static/")
	if len(req.Markers) > 0 {
		pins := make([]string, len(req.Markers))
		for i, m := range req.Markers {
			// Mapbox uses lon,lat order.
			pins[i] = fmt.Sprintf("pin-s+%s(%s,%s)", m.Color, coord(m.Longitude), coord(m.Latitude))
		}
		b.WriteString(strings.Join(pins, ","))
		b.WriteByte('/')
	}
	fmt.Fprintf(&b, "%s,%s,%s,0,%s/%dx%d",
		coord(req.Longitude), coord(req.Latitude),
		strconv.FormatFloat(req.Zoom, 'f', -1, 64), strconv.FormatFloat(req.Pitch, 'f', -1, 64),
		req.Width, req.Height)
	return b.String()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}
