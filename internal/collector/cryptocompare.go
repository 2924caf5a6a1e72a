package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"WeekdaySentinel/internal/model"
)

// DefaultCryptoCompareURL is the CryptoCompare data API host.
const DefaultCryptoCompareURL = "https://data-api.cryptocompare.com"

// CryptoCompareFetcher implements Fetcher using the CryptoCompare index history API.
type CryptoCompareFetcher struct {
	BaseURL string
	APIKey  string
	Market  string
	Client  *http.Client
}

// NewCryptoCompareFetcher creates a new fetcher with optional proxy support.
func NewCryptoCompareFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *CryptoCompareFetcher {
	if baseURL == "" {
		baseURL = DefaultCryptoCompareURL
	}
	return &CryptoCompareFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Market:  "cadli",
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *CryptoCompareFetcher) Name() string { return "cryptocompare" }

// ccDay is one entry of the Data array with apply_mapping=true.
type ccDay struct {
	Timestamp *int64  `json:"TIMESTAMP"`
	Open      float64 `json:"OPEN"`
	High      float64 `json:"HIGH"`
	Low       float64 `json:"LOW"`
	Close     float64 `json:"CLOSE"`
	Volume    float64 `json:"VOLUME"`
}

type ccResponse struct {
	Data []ccDay `json:"Data"`
	Err  struct {
		Type    int    `json:"type"`
		Message string `json:"message"`
	} `json:"Err"`
}

func (f *CryptoCompareFetcher) endpoint(instrument model.Instrument, days int) string {
	q := url.Values{}
	q.Set("market", f.Market)
	q.Set("instrument", instrument.Pair())
	q.Set("limit", strconv.Itoa(days))
	q.Set("aggregate", "1")
	q.Set("fill", "true")
	q.Set("apply_mapping", "true")
	q.Set("response_format", "JSON")
	return fmt.Sprintf("%s/index/cc/v1/historical/days?%s", f.BaseURL, q.Encode())
}

func (f *CryptoCompareFetcher) FetchDailyPrices(ctx context.Context, instrument model.Instrument, days int) ([]model.RawDailyRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(instrument, days), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Apikey "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: cryptocompare fetch: %v", model.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: cryptocompare read body: %v", model.ErrRetrieval, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: cryptocompare: status %d, body: %s", model.ErrRetrieval, resp.StatusCode, string(body))
	}

	var out ccResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: cryptocompare decode: %v", model.ErrRetrieval, err)
	}
	if out.Err.Message != "" {
		return nil, fmt.Errorf("%w: cryptocompare api error: %s", model.ErrRetrieval, out.Err.Message)
	}

	records := make([]model.RawDailyRecord, len(out.Data))
	for i, d := range out.Data {
		records[i] = model.RawDailyRecord{
			Timestamp: d.Timestamp,
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    d.Volume,
		}
	}
	sortRecords(records)
	return trimRecords(records, days), nil
}

// trimRecords keeps at most days records. Undated records go first, then the
// oldest dated ones.
func trimRecords(records []model.RawDailyRecord, days int) []model.RawDailyRecord {
	if days < 0 {
		days = 0
	}
	if len(records) <= days {
		return records
	}
	dated := len(records)
	for dated > 0 && records[dated-1].Timestamp == nil {
		dated--
	}
	if dated >= days {
		return records[dated-days : dated]
	}
	return records[:days]
}

// sortRecords orders records by timestamp. Records without a timestamp keep
// their position relative to each other and sort last.
func sortRecords(records []model.RawDailyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Timestamp, records[j].Timestamp
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})
}
