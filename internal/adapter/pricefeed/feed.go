package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"donationflow/internal/infrastructure/metrics"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrAssetNotFound    = errors.New("asset not found in response")
	ErrInvalidPrice     = errors.New("invalid price field")
)

const maxBodyBytes = 1 << 20

// httpFeed holds what Jupiter and CoinGecko have in common: a base URL, a
// client and the way failures are logged and counted.
type httpFeed struct {
	name    string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	metrics *metrics.DonationMetrics
	now     func() time.Time
}

func newHTTPFeed(name, baseURL string, client *http.Client, log zerolog.Logger) httpFeed {
	if client == nil {
		client = &http.Client{}
	}
	return httpFeed{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
		log:     log.With().Str("feed", name).Logger(),
		metrics: metrics.Donations(),
		now:     time.Now,
	}
}

// getJSON issues a GET and decodes the top level object of the body.
func (f httpFeed) getJSON(ctx context.Context, path string, query url.Values) (map[string]json.RawMessage, error) {
	endpoint := f.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", f.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", f.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %s responded with %d", ErrUnexpectedStatus, f.name, resp.StatusCode)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode %s body: %v", ErrInvalidPrice, f.name, err)
	}
	return body, nil
}

// assetEntry returns the object stored under assetID.
func assetEntry(body map[string]json.RawMessage, assetID string) (map[string]json.RawMessage, error) {
	raw, ok := body[assetID]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: entry for %s is not an object", ErrInvalidPrice, assetID)
	}
	return entry, nil
}

// numberField reads a JSON number. Strings, nulls and missing fields are
// rejected.
func numberField(entry map[string]json.RawMessage, field string) (float64, error) {
	raw, ok := entry[field]
	if !ok || isNull(raw) {
		return 0, fmt.Errorf("%w: %s missing", ErrInvalidPrice, field)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidPrice, field)
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// observe records the outcome of one fetch.
func (f httpFeed) observe(start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrUnexpectedStatus):
		outcome = metrics.OutcomeStatus
	case errors.Is(err, ErrAssetNotFound), errors.Is(err, ErrInvalidPrice):
		outcome = metrics.OutcomeMalformed
	default:
		outcome = metrics.OutcomeTransport
	}
	f.metrics.ObservePriceFetch(f.name, outcome, f.now().Sub(start))
}

// usdOrZero collapses every failure into the 0 sentinel, leaving a
// diagnostic in the log.
func (f httpFeed) usdOrZero(ctx context.Context, assetID string, fetch func(context.Context, string) (float64, error)) float64 {
	price, err := fetch(ctx, assetID)
	if err != nil {
		f.log.Warn().Err(err).Str("asset", assetID).Msg("price unavailable")
		return 0
	}
	return price
}
