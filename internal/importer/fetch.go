package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const fetchTimeout = 5 * time.Second

type OutcomeStatus string

const (
	OutcomeImported OutcomeStatus = "imported"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Outcome reports what one fetch invocation did. Reason is filled for
// skips and failures.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Summary Summary       `json:"summary"`
}

// ImportRunner is the piece of the importer the fetcher needs.
type ImportRunner interface {
	Import(ctx context.Context, path string, kind ImportType) (Summary, error)
}

// Archiver stores a copy of each fetched workbook; optional.
type Archiver interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

// Fetcher conditionally downloads a remote price list and hands it to
// the importer. The decision is driven by the ETag from a metadata
// request compared against the most recent ImportRecord for the URL.
type Fetcher struct {
	records  RecordRepository
	importer ImportRunner
	archive  Archiver // nil disables archiving
	client   *http.Client
	quiet    bool
}

func NewFetcher(records RecordRepository, runner ImportRunner, archive Archiver, quiet bool) *Fetcher {
	return &Fetcher{
		records:  records,
		importer: runner,
		archive:  archive,
		client:   &http.Client{Timeout: fetchTimeout},
		quiet:    quiet,
	}
}

func (f *Fetcher) uprint(format string, args ...interface{}) {
	if !f.quiet {
		log.Printf(format, args...)
	}
}

// defaultURL resolves the configured source URL for an import type.
func defaultURL(kind ImportType) string {
	switch kind {
	case TypePriceHistory:
		return os.Getenv("OLCC_PRICE_HISTORY_URL")
	case TypeStores:
		return os.Getenv("OLCC_STORE_LIST_URL")
	default:
		return os.Getenv("OLCC_PRICE_LIST_URL")
	}
}

// failureReason names a transport error for the Outcome. Each of the
// original failure classes gets its own reason string.
func failureReason(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return "timeout"
		}
		if strings.Contains(uerr.Err.Error(), "stopped after") {
			return "too many redirects"
		}
	}
	return "connection error"
}

// Fetch downloads rawURL (or the configured default for kind) and
// triggers an import when the file changed since the last fetch, or
// when force is set. Transport failures come back as a failed Outcome,
// not an error; only configuration problems are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, kind ImportType, force bool) (Outcome, error) {
	if _, err := ParseImportType(string(kind)); err != nil {
		return Outcome{}, err
	}

	if rawURL == "" {
		rawURL = defaultURL(kind)
	}
	if rawURL == "" {
		return Outcome{}, fmt.Errorf("no URL given and no default configured for %q", kind)
	}

	if u, err := url.ParseRequestURI(rawURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Outcome{Status: OutcomeFailed, Reason: "invalid url"}, nil
	}

	previous, err := f.records.Latest(ctx, rawURL)
	if errors.Is(err, ErrNoRecord) {
		previous = nil
	} else if err != nil {
		return Outcome{}, err
	}

	// Metadata request for the change-detection token.
	etag, outcome, ok := f.head(ctx, rawURL)
	if !ok {
		return outcome, nil
	}

	shouldImport := force || previous == nil || etag != previous.ETag
	if !shouldImport {
		f.uprint("File not modified, skipping import")
		return Outcome{Status: OutcomeSkipped, Reason: "not modified"}, nil
	}

	f.uprint("Starting import from %q", rawURL)

	content, outcome, ok := f.download(ctx, rawURL)
	if !ok {
		return outcome, nil
	}

	// The temp file must be written and closed before the importer
	// opens it; two live handles on the same file is how the old
	// system corrupted imports.
	path, err := writeTempFile(content)
	if err != nil {
		return Outcome{}, err
	}
	defer os.Remove(path)

	checksum := sha256.Sum256(content)
	record := &ImportRecord{
		URL:      rawURL,
		ETag:     etag,
		Checksum: hex.EncodeToString(checksum[:]),
	}
	if err := f.records.Create(ctx, record); err != nil {
		return Outcome{}, err
	}

	if f.archive != nil {
		key := fmt.Sprintf("imports/%s.xlsx", uuid.New().String())
		if _, err := f.archive.Upload(ctx, key, bytes.NewReader(content)); err != nil {
			log.Printf("Archiving %q failed: %v", rawURL, err)
		}
	}

	summary, err := f.importer.Import(ctx, path, kind)
	if err != nil {
		return Outcome{Status: OutcomeFailed, Reason: err.Error()}, err
	}

	return Outcome{Status: OutcomeImported, Summary: summary}, nil
}

// head fetches the ETag for the URL. ok is false when the outcome is
// already decided (transport or HTTP failure).
func (f *Fetcher) head(ctx context.Context, rawURL string) (string, Outcome, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", Outcome{Status: OutcomeFailed, Reason: "invalid url"}, false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", Outcome{Status: OutcomeFailed, Reason: failureReason(err)}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", Outcome{Status: OutcomeFailed, Reason: fmt.Sprintf("http error: %d", resp.StatusCode)}, false
	}

	etag := strings.Trim(resp.Header.Get("ETag"), `"`)
	if etag == "" {
		log.Println("The server did not include an ETag in the response")
	}
	return etag, Outcome{}, true
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, Outcome, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Outcome{Status: OutcomeFailed, Reason: "invalid url"}, false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, Outcome{Status: OutcomeFailed, Reason: failureReason(err)}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, Outcome{Status: OutcomeFailed, Reason: fmt.Sprintf("http error: %d", resp.StatusCode)}, false
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Outcome{Status: OutcomeFailed, Reason: failureReason(err)}, false
	}
	return content, Outcome{}, true
}

func writeTempFile(content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "olcc-*.xlsx")
	if err != nil {
		return "", err
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
