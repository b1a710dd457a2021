// Package forex fetches live exchange rates used to refresh the static
// currency table.
package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the Yahoo Finance v8 chart endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	// DefaultCacheTTL bounds how long a fetched rate is reused.
	DefaultCacheTTL = 15 * time.Minute

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// chartResponse is the subset of the Yahoo chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type cachedRate struct {
	rate      float64
	fetchedAt time.Time
}

// RateFetcher fetches exchange rates from Yahoo Finance. Rates are cached
// in-memory for the configured TTL.
type RateFetcher struct {
	httpClient *http.Client
	baseURL    string
	ttl        time.Duration
	now        func() time.Time
	mu         sync.RWMutex
	rates      map[string]cachedRate // e.g. "USDLAK" -> 22000 (1 USD = 22000 LAK)
}

// NewRateFetcher creates a RateFetcher. An empty baseURL selects DefaultBaseURL.
func NewRateFetcher(httpClient *http.Client, baseURL string) *RateFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RateFetcher{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttl:        DefaultCacheTTL,
		now:        time.Now,
		rates:      make(map[string]cachedRate),
	}
}

// GetRate returns how many units of quote equal one unit of base. For base
// THB and quote LAK it fetches THBLAK=X.
func (f *RateFetcher) GetRate(ctx context.Context, base, quote string) (float64, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	if base == quote {
		return 1.0, nil
	}
	pair := base + quote

	f.mu.RLock()
	cached, ok := f.rates[pair]
	f.mu.RUnlock()
	if ok && f.now().Sub(cached.fetchedAt) < f.ttl {
		return cached.rate, nil
	}

	rate, err := f.fetchRate(ctx, pair)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	f.rates[pair] = cachedRate{rate: rate, fetchedAt: f.now()}
	f.mu.Unlock()

	return rate, nil
}

// fetchRate fetches one pair. Yahoo Finance uses tickers like "USDLAK=X" for forex pairs.
func (f *RateFetcher) fetchRate(ctx context.Context, pair string) (float64, error) {
	ticker := pair + "=X"
	url := f.baseURL + "/" + ticker + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building forex request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("forex http request for %s: %w", ticker, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("forex request for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return 0, fmt.Errorf("decoding forex response for %s: %w", ticker, err)
	}

	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("forex chart error for %s: %s: %s", ticker, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, fmt.Errorf("no forex results for %s", ticker)
	}

	rate := chart.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return 0, fmt.Errorf("invalid forex rate for %s: %f", ticker, rate)
	}

	return rate, nil
}
