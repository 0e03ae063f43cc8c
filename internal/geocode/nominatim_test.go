package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*NominatimClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	return &NominatimClient{baseURL: server.URL, client: server.Client()}, server
}

func TestGeocodeSingleMatch(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "1716 SW Highway 101" {
			t.Fatalf("unexpected query %q", got)
		}
		w.Write([]byte(`[{"display_name":"1716 SW Highway 101, Lincoln City, OR","lat":"44.9582","lon":"-124.0179"}]`))
	})
	defer server.Close()

	result, err := client.Geocode(context.Background(), "1716 SW Highway 101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Address != "1716 SW Highway 101, Lincoln City, OR" {
		t.Fatalf("wrong address: %q", result.Address)
	}
	if result.Latitude != 44.9582 || result.Longitude != -124.0179 {
		t.Fatalf("wrong coordinates: %v, %v", result.Latitude, result.Longitude)
	}
}

func TestGeocodeAmbiguousMatch(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"display_name":"a","lat":"1","lon":"2"},{"display_name":"b","lat":"3","lon":"4"}]`))
	})
	defer server.Close()

	if _, err := client.Geocode(context.Background(), "Main St"); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer server.Close()

	if _, err := client.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}
