package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hearthcast/hearthcast/pkg/common"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// stateCodes maps full state names to the two-letter codes the EIA API uses.
var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN",
	"iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
	"maine": "ME", "maryland": "MD", "massachusetts": "MA", "michigan": "MI",
	"minnesota": "MN", "mississippi": "MS", "missouri": "MO", "montana": "MT",
	"nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC",
	"north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// EIA fetches live state-level retail prices from the EIA open-data API.
// Quotes are cached per state+fuel with their fetch timestamp.
type EIA struct {
	apiURL string
	apiKey string
	client *http.Client

	mu       sync.Mutex
	cached   map[string]cachedQuote
	cacheTTL time.Duration
}

type cachedQuote struct {
	rate    float64
	fetched time.Time
}

// ConfiguredEIA sets up flags for the EIA API and returns the instance.
func ConfiguredEIA() *EIA {
	e := &EIA{
		client:   common.HTTPClient(10 * time.Second),
		cached:   make(map[string]cachedQuote),
		cacheTTL: 24 * time.Hour,
	}
	apiURL := lflag.String("eia-api-url", "https://api.eia.gov/v2", "URL for the EIA open data API")
	apiKey := lflag.String("eia-api-key", "", "API key for the EIA open data API (optional)")

	lflag.Do(func() {
		e.apiURL = *apiURL
		e.apiKey = *apiKey
	})

	return e
}

// Name implements Source.
func (e *EIA) Name() types.RateSource {
	return types.RateSourceLive
}

type eiaResponse struct {
	Response struct {
		Data []struct {
			Price float64 `json:"price"`
		} `json:"data"`
	} `json:"response"`
}

// Rate implements Source. Without an API key the source is unavailable and
// the chain falls through to the state table.
func (e *EIA) Rate(ctx context.Context, fuel types.FuelKind, state string) (float64, time.Time, error) {
	if e.apiKey == "" {
		return 0, time.Time{}, fmt.Errorf("eia-api-key not configured")
	}

	code, ok := stateCodes[strings.ToLower(strings.TrimSpace(state))]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unknown state %q", state)
	}

	key := string(fuel) + "/" + code

	e.mu.Lock()
	if q, ok := e.cached[key]; ok && time.Since(q.fetched) < e.cacheTTL {
		e.mu.Unlock()
		return q.rate, q.fetched, nil
	}
	e.mu.Unlock()

	rate, err := e.fetchRate(ctx, fuel, code)
	if err != nil {
		return 0, time.Time{}, err
	}

	now := time.Now()
	e.mu.Lock()
	e.cached[key] = cachedQuote{rate: rate, fetched: now}
	e.mu.Unlock()

	return rate, now, nil
}

func (e *EIA) fetchRate(ctx context.Context, fuel types.FuelKind, stateCode string) (float64, error) {
	var path string
	switch fuel {
	case types.FuelElectricity:
		path = "/electricity/retail-sales/data/"
	case types.FuelGas:
		path = "/natural-gas/pri/sum/data/"
	default:
		return 0, fmt.Errorf("unknown fuel: %s", fuel)
	}

	u, err := url.Parse(e.apiURL + path)
	if err != nil {
		return 0, fmt.Errorf("invalid api url: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", e.apiKey)
	params.Set("frequency", "monthly")
	params.Set("data[0]", "price")
	params.Set("facets[stateid][]", stateCode)
	params.Set("facets[sectorid][]", "RES")
	params.Set("sort[0][column]", "period")
	params.Set("sort[0][direction]", "desc")
	params.Set("length", "1")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching live rate", slog.String("fuel", string(fuel)), slog.String("state", stateCode))

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("eia api returned status: %d", resp.StatusCode)
	}

	var data eiaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode eia response: %w", err)
	}
	if len(data.Response.Data) == 0 {
		return 0, fmt.Errorf("eia returned no price data")
	}

	price := data.Response.Data[0].Price
	switch fuel {
	case types.FuelElectricity:
		// retail-sales prices are cents/kWh
		price /= 100
	case types.FuelGas:
		// natural gas prices are $/Mcf; roughly 10.37 therms per Mcf
		price /= 10.37
	}

	if price <= 0 {
		return 0, fmt.Errorf("eia returned non-positive price: %f", price)
	}
	return price, nil
}
