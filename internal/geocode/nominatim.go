package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimClient geocodes against a Nominatim-compatible endpoint.
// No request timeout is set here; the importer enforces an inter-call
// delay instead, per the service's usage policy.
type NominatimClient struct {
	baseURL string
	client  *http.Client
}

func NewNominatimClient() *NominatimClient {
	baseURL := os.Getenv("GEOCODER_URL")
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}

	return &NominatimClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "olccprices/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decoding geocoder response: %w", err)
	}

	switch len(places) {
	case 0:
		return nil, ErrNoMatch
	case 1:
		// fall through
	default:
		return nil, ErrAmbiguous
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", places[0].Lon, err)
	}

	return &Result{
		Address:   strings.TrimSpace(places[0].DisplayName),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
