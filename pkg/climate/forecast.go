package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hearthcast/hearthcast/pkg/common"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// WeatherProvider returns a daily temperature series for a location. The
// engine treats failures as recoverable: it falls back to synthesized
// climatology.
type WeatherProvider interface {
	// DailySeries returns daily records covering the requested month. The
	// series already has the elevation lapse-rate correction applied.
	DailySeries(ctx context.Context, loc types.Location, year int, month time.Month) (types.WeatherSeries, error)
}

// OpenMeteo fetches daily highs/lows from the Open-Meteo forecast/archive
// API. Responses are cached per location+month for the cache TTL.
type OpenMeteo struct {
	apiURL string
	client *http.Client

	mu       sync.Mutex
	cached   map[string]types.WeatherSeries
	cachedAt map[string]time.Time
	cacheTTL time.Duration
}

// ConfiguredOpenMeteo sets up flags for the weather API and returns the
// instance.
func ConfiguredOpenMeteo() *OpenMeteo {
	o := &OpenMeteo{
		client:   common.HTTPClient(10 * time.Second),
		cached:   make(map[string]types.WeatherSeries),
		cachedAt: make(map[string]time.Time),
		cacheTTL: time.Hour,
	}
	apiURL := lflag.String("weather-api-url", "https://archive-api.open-meteo.com/v1/archive", "URL for the daily weather API")

	lflag.Do(func() {
		o.apiURL = *apiURL
	})

	return o
}

// Validate ensures the configuration is valid.
func (o *OpenMeteo) Validate() error {
	if o.apiURL == "" {
		return fmt.Errorf("weather-api-url is required")
	}
	if _, err := url.Parse(o.apiURL); err != nil {
		return fmt.Errorf("failed to parse weather url (%s): %w", o.apiURL, err)
	}
	return nil
}

type openMeteoResponse struct {
	Daily struct {
		Time    []string  `json:"time"`
		TempMax []float64 `json:"temperature_2m_max"`
		TempMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
	Elevation float64 `json:"elevation"`
}

// DailySeries implements WeatherProvider.
func (o *OpenMeteo) DailySeries(ctx context.Context, loc types.Location, year int, month time.Month) (types.WeatherSeries, error) {
	key := fmt.Sprintf("%.2f,%.2f/%d-%02d", loc.Lat, loc.Lon, year, month)

	o.mu.Lock()
	if at, ok := o.cachedAt[key]; ok && time.Since(at) < o.cacheTTL {
		series := o.cached[key]
		o.mu.Unlock()
		return series, nil
	}
	o.mu.Unlock()

	series, err := o.fetchMonth(ctx, loc, year, month)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.cached[key] = series
	o.cachedAt[key] = time.Now()
	o.mu.Unlock()

	return series, nil
}

func (o *OpenMeteo) fetchMonth(ctx context.Context, loc types.Location, year int, month time.Month) (types.WeatherSeries, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	u, err := url.Parse(o.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", loc.Lat))
	params.Set("longitude", fmt.Sprintf("%.4f", loc.Lon))
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("daily", "temperature_2m_max,temperature_2m_min")
	params.Set("temperature_unit", "fahrenheit")
	params.Set("timezone", "auto")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching daily weather", slog.String("url", u.String()))

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status: %d", resp.StatusCode)
	}

	var data openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	if len(data.Daily.Time) != len(data.Daily.TempMax) || len(data.Daily.Time) != len(data.Daily.TempMin) {
		return nil, fmt.Errorf("weather api returned mismatched series lengths")
	}

	// station elevation comes from the model grid cell; use it for the
	// lapse-rate correction when the caller didn't supply one
	stationElev := loc.StationElevationFt
	if stationElev == 0 && data.Elevation != 0 {
		// API elevation is meters
		stationElev = data.Elevation * 3.28084
	}
	correction := types.Location{
		HomeElevationFt:    loc.HomeElevationFt,
		StationElevationFt: stationElev,
	}.ElevationCorrectionF()

	series := make(types.WeatherSeries, 0, len(data.Daily.Time))
	for i, ts := range data.Daily.Time {
		date, err := time.Parse("2006-01-02", ts)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to parse weather date", slog.String("value", ts), slog.Any("error", err))
			continue
		}
		high := data.Daily.TempMax[i] + correction
		low := data.Daily.TempMin[i] + correction
		series = append(series, types.DailyTemp{
			Date:  date,
			LowF:  low,
			HighF: high,
			AvgF:  (low + high) / 2,
		})
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched daily weather",
		slog.Int("days", len(series)),
		slog.Float64("correctionF", correction),
	)
	return series, nil
}
