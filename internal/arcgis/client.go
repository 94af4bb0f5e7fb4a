package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches parcel exports from an ArcGIS REST feature service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given layer query endpoint
// (".../MapServer/<layer>/query").
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// FetchGeoJSON fetches every feature intersecting the given bounding box and
// returns the raw GeoJSON document. The response is checked to be a parsable
// feature collection before it is returned, so a service error page never
// ends up on disk as a parcel export.
func (c *Client) FetchGeoJSON(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]byte, int, error) {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", "*")
	params.Set("geometry", fmt.Sprintf("%f,%f,%f,%f", minLng, minLat, maxLng, maxLat))
	params.Set("geometryType", "esriGeometryEnvelope")
	params.Set("spatialRel", "esriSpatialRelIntersects")
	params.Set("inSR", "4326")
	params.Set("outSR", "4326")
	params.Set("f", "geojson")
	params.Set("resultRecordCount", "2000") // Max allowed by API

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching parcels: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, 0, fmt.Errorf("decoding response: %w", err)
	}

	return body, len(fc.Features), nil
}
