// Package geo recovers the location a photo was taken at from its EXIF GPS
// block. Every failure collapses to "no coordinates"; callers never see an
// error from this package.
package geo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/pkg/metrics"
)

const (
	DefaultFetchTimeout  = 10 * time.Second
	DefaultMaxCandidates = 2
	DefaultMaxPhotoBytes = 20 << 20
)

// Extractor reads GPS metadata from photo bytes or from photos behind URLs.
type Extractor struct {
	client        *http.Client
	timeout       time.Duration
	retries       int
	maxCandidates int
	maxBytes      int64
	logger        zerolog.Logger
}

type Option func(*Extractor)

// WithHTTPClient replaces the fetch client. The client is copied and always
// runs with the extractor's timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:        &http.Client{},
		timeout:       DefaultFetchTimeout,
		retries:       1,
		maxCandidates: DefaultMaxCandidates,
		maxBytes:      DefaultMaxPhotoBytes,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timeout <= 0 {
		e.timeout = DefaultFetchTimeout
	}
	client := *e.client
	client.Timeout = e.timeout
	e.client = &client
	return e
}

// Extract decodes coordinates from an in-memory photo.
func (e *Extractor) Extract(photo []byte) *domain.Coordinates {
	c, result := decode(photo)
	metrics.GeoExtractionsTotal.WithLabelValues(result).Inc()
	return c
}

// ExtractFromCandidates tries the first two URLs in order and returns the
// first location found. Later URLs are never fetched.
func (e *Extractor) ExtractFromCandidates(ctx context.Context, urls []string) *domain.Coordinates {
	if len(urls) > e.maxCandidates {
		urls = urls[:e.maxCandidates]
	}
	for _, u := range urls {
		body, err := e.fetch(ctx, u)
		if err != nil {
			metrics.GeoExtractionsTotal.WithLabelValues("fetch_error").Inc()
			e.logger.Debug().Err(err).Str("url", u).Msg("photo fetch failed")
			continue
		}
		if c := e.Extract(body); c != nil {
			return c
		}
	}
	return nil
}

// fetch downloads url, retrying once on transport errors and 5xx responses.
func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, retryable, err := e.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (e *Extractor) fetchOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.PhotoFetchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(body)) > e.maxBytes {
		return nil, false, fmt.Errorf("photo larger than %d bytes", e.maxBytes)
	}
	status = "ok"
	return body, false, nil
}

// decode returns the coordinates in photo and a metrics label for the outcome.
func decode(photo []byte) (*domain.Coordinates, string) {
	x, err := exif.Decode(bytes.NewReader(photo))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return nil, "decode_error"
	}

	lat, err := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return nil, "no_gps"
	}
	lon, err := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return nil, "no_gps"
	}

	c := domain.Coordinates{Latitude: lat, Longitude: lon}
	if !c.Valid() {
		return nil, "invalid"
	}
	return &c, "found"
}

// coordinate reads a degrees/minutes/seconds rational triple and its
// hemisphere reference.
func coordinate(x *exif.Exif, field, refField exif.FieldName) (float64, error) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, err
	}
	if tag.Count < 3 {
		return 0, fmt.Errorf("%s: expected 3 components, got %d", field, tag.Count)
	}

	var dms [3]float64
	for i := range dms {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, errors.New("zero denominator")
		}
		dms[i] = float64(num) / float64(den)
	}

	var ref string
	if refTag, err := x.Get(refField); err == nil {
		if s, err := refTag.StringVal(); err == nil {
			ref = strings.ToUpper(strings.Trim(s, "\x00 "))
		}
	}
	return domain.DMSToDecimal(dms[0], dms[1], dms[2], ref), nil
}
