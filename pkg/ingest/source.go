package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Loader produces a complete record set. It either returns every accepted
// record or an error; it never delivers partial data.
type Loader interface {
	Load(ctx context.Context) (*Result, error)
}

// HTTPSource fetches a CSV export with a single GET per Load. Nothing is cached between calls.
type HTTPSource struct {
	URL string
	// CacheBustParam, when set, is added to the query with the current unix milliseconds.
	CacheBustParam string
	Client         *http.Client
	Logger         *logrus.Logger

	now func() time.Time
}

func NewHTTPSource(logger *logrus.Logger, location string, cacheBustParam string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:            location,
		CacheBustParam: cacheBustParam,
		Client:         &http.Client{Timeout: timeout},
		Logger:         logger,
		now:            time.Now,
	}
}

func (s *HTTPSource) requestURL() (string, error) {
	if s.CacheBustParam == "" {
		return s.URL, nil
	}

	target, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q: %w", ErrFetch, s.URL, err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	query := target.Query()
	query.Set(s.CacheBustParam, strconv.FormatInt(now().UnixMilli(), 10))
	target.RawQuery = query.Encode()

	return target.String(), nil
}

func (s *HTTPSource) Load(ctx context.Context) (*Result, error) {
	target, err := s.requestURL()
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %q from %s", ErrFetch, response.Status, s.URL)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body from %s: %w", ErrFetch, s.URL, err)
	}

	return parseAndReport(s.Logger, s.URL, bytes.NewReader(body))
}

// FileSource reads a CSV export from the local filesystem.
type FileSource struct {
	Path   string
	Logger *logrus.Logger
}

func (s *FileSource) Load(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return parseAndReport(s.Logger, s.Path, bytes.NewReader(body))
}

// TextSource serves a fixed CSV document.
type TextSource struct {
	Text   string
	Logger *logrus.Logger
}

func (s *TextSource) Load(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parseAndReport(s.Logger, "text", strings.NewReader(s.Text))
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
//
//nolint:ireturn
func NewSource(logger *logrus.Logger, location string, cacheBustParam string, timeout time.Duration) Loader {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(logger, location, cacheBustParam, timeout)
	default:
		return &FileSource{Path: strings.TrimPrefix(location, "file://"), Logger: logger}
	}
}

func parseAndReport(logger *logrus.Logger, origin string, r io.Reader) (*Result, error) {
	result, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", origin, err)
	}

	if logger != nil {
		Report(logger.WithField("source", origin), result)
	}

	return result, nil
}

// Report logs every skipped row at warn level followed by an info summary.
func Report(entry *logrus.Entry, result *Result) {
	for _, skipped := range result.Skipped {
		entry.WithFields(logrus.Fields{
			"line":  skipped.Line,
			"field": skipped.Field,
		}).Warnf("Skipping row: %v", skipped.Err)
	}

	entry.WithFields(logrus.Fields{
		"records": len(result.Records),
		"skipped": len(result.Skipped),
	}).Info("Ingested run records")
}
