package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/twaddington/olccprices/internal/geocode"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/store"
)

// fakeRunner stands in for the Importer; it records the file it was
// handed and captures its content before the fetcher deletes it.
type fakeRunner struct {
	calls   int
	path    string
	kind    ImportType
	content []byte
	summary Summary
}

func (f *fakeRunner) Import(ctx context.Context, path string, kind ImportType) (Summary, error) {
	f.calls++
	f.path = path
	f.kind = kind
	f.content, _ = os.ReadFile(path)
	return f.summary, nil
}

func newFetchServer(t *testing.T, etag, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if etag != "" {
			w.Header().Set("ETag", `"`+etag+`"`)
		}
		if r.Method == http.MethodHead {
			return
		}
		w.Write([]byte(body))
	}))
}

func TestFetchImportsWhenNoPreviousRecord(t *testing.T) {
	server := newFetchServer(t, "foo", "workbook-bytes")
	defer server.Close()

	records := NewInMemoryRecordRepository()
	runner := &fakeRunner{summary: Summary{Imported: 3}}
	fetcher := NewFetcher(records, runner, nil, true)

	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeImported {
		t.Fatalf("expected import, got %+v", outcome)
	}
	if outcome.Summary.Imported != 3 {
		t.Fatalf("summary not propagated: %+v", outcome)
	}

	if runner.calls != 1 {
		t.Fatalf("importer called %d times", runner.calls)
	}
	if string(runner.content) != "workbook-bytes" {
		t.Fatalf("temp file content = %q", runner.content)
	}
	if runner.kind != TypePrices {
		t.Fatalf("kind = %q", runner.kind)
	}

	record, err := records.Latest(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected an import record: %v", err)
	}
	if record.ETag != "foo" {
		t.Fatalf("etag should be stored with quotes stripped: %q", record.ETag)
	}
	if record.Checksum == "" {
		t.Fatal("checksum should be recorded")
	}
}

func TestFetchSkipsWhenETagUnchanged(t *testing.T) {
	server := newFetchServer(t, "foo", "workbook-bytes")
	defer server.Close()

	records := NewInMemoryRecordRepository()
	records.Create(context.Background(), &ImportRecord{URL: server.URL, ETag: "foo"})

	runner := &fakeRunner{}
	fetcher := NewFetcher(records, runner, nil, true)

	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeSkipped {
		t.Fatalf("expected skip, got %+v", outcome)
	}
	if runner.calls != 0 {
		t.Fatal("importer must not run when the file is unchanged")
	}
}

func TestFetchImportsWhenETagDiffers(t *testing.T) {
	server := newFetchServer(t, "bar", "new-bytes")
	defer server.Close()

	records := NewInMemoryRecordRepository()
	records.Create(context.Background(), &ImportRecord{URL: server.URL, ETag: "foo"})

	runner := &fakeRunner{}
	fetcher := NewFetcher(records, runner, nil, true)

	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeImported {
		t.Fatalf("expected import, got %+v", outcome)
	}
	if runner.calls != 1 {
		t.Fatal("importer should run when the etag changed")
	}
}

func TestFetchForceIgnoresETag(t *testing.T) {
	server := newFetchServer(t, "foo", "workbook-bytes")
	defer server.Close()

	records := NewInMemoryRecordRepository()
	records.Create(context.Background(), &ImportRecord{URL: server.URL, ETag: "foo"})

	runner := &fakeRunner{}
	fetcher := NewFetcher(records, runner, nil, true)

	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypePrices, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeImported {
		t.Fatalf("force should import regardless of etag, got %+v", outcome)
	}
	if runner.calls != 1 {
		t.Fatal("importer should run under force")
	}
}

func TestFetchFailureReasons(t *testing.T) {
	records := NewInMemoryRecordRepository()
	runner := &fakeRunner{}
	fetcher := NewFetcher(records, runner, nil, true)

	// Invalid URL.
	outcome, err := fetcher.Fetch(context.Background(), "not a url", TypePrices, false)
	if err != nil {
		t.Fatalf("transport failures are outcomes, not errors: %v", err)
	}
	if outcome.Status != OutcomeFailed || outcome.Reason != "invalid url" {
		t.Fatalf("got %+v", outcome)
	}

	// Connection refused.
	outcome, err = fetcher.Fetch(context.Background(), "http://127.0.0.1:1", TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeFailed || outcome.Reason != "connection error" {
		t.Fatalf("got %+v", outcome)
	}

	// HTTP error status.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	outcome, err = fetcher.Fetch(context.Background(), server.URL, TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeFailed || outcome.Reason != "http error: 404" {
		t.Fatalf("got %+v", outcome)
	}

	if runner.calls != 0 {
		t.Fatal("no failure case should reach the importer")
	}
}

// A fetched store list goes through the same geocoding as a manual
// import; the coordinates must land on the saved stores.
func TestFetchStoresGeocodes(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"1193", "LINCOLN CITY", "8429967760", "1716 SW Highway 101", "Mon-Sat 10-9", "Lincoln"},
	})
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	server := newFetchServer(t, "foo", string(body))
	defer server.Close()

	stores := store.NewInMemoryRepository()
	im := newTestImporter(product.NewInMemoryRepository(), stores)
	g := &fakeGeocoder{result: &geocode.Result{
		Address:   "1716 SW Highway 101, Lincoln City, OR 97367",
		Latitude:  44.9582,
		Longitude: -124.0179,
	}}
	im.geocoder = g

	fetcher := NewFetcher(NewInMemoryRecordRepository(), im, nil, true)
	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypeStores, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeImported || outcome.Summary.Imported != 1 {
		t.Fatalf("expected one imported store, got %+v", outcome)
	}

	if g.calls != 1 {
		t.Fatalf("expected 1 geocode call, got %d", g.calls)
	}
	s, err := stores.FindByKey(context.Background(), 1193)
	if err != nil {
		t.Fatal(err)
	}
	if s.Latitude != 44.9582 || s.Longitude != -124.0179 {
		t.Fatalf("coordinates not applied: %v, %v", s.Latitude, s.Longitude)
	}
}

type fakeArchiver struct {
	key string
}

func (f *fakeArchiver) Upload(ctx context.Context, key string, body io.Reader) (string, error) {
	f.key = key
	return "https://example.com/" + key, nil
}

func TestFetchArchivesWorkbookUnderXlsxKey(t *testing.T) {
	server := newFetchServer(t, "foo", "workbook-bytes")
	defer server.Close()

	archive := &fakeArchiver{}
	fetcher := NewFetcher(NewInMemoryRecordRepository(), &fakeRunner{}, archive, true)

	outcome, err := fetcher.Fetch(context.Background(), server.URL, TypePrices, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeImported {
		t.Fatalf("expected import, got %+v", outcome)
	}

	if !strings.HasPrefix(archive.key, "imports/") || !strings.HasSuffix(archive.key, ".xlsx") {
		t.Fatalf("archive key = %q", archive.key)
	}
}

func TestFetchMissingURLIsConfigurationError(t *testing.T) {
	os.Unsetenv("OLCC_PRICE_LIST_URL")

	fetcher := NewFetcher(NewInMemoryRecordRepository(), &fakeRunner{}, nil, true)
	if _, err := fetcher.Fetch(context.Background(), "", TypePrices, false); err == nil {
		t.Fatal("missing URL with no default must be an error")
	}
}
