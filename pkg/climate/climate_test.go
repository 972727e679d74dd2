package climate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreeDaysLookup(t *testing.T) {
	d, err := NewDegreeDays()
	require.NoError(t, err)

	t.Run("known city", func(t *testing.T) {
		assert.True(t, d.Known("Minneapolis", "Minnesota"))
		assert.Equal(t, 7640.0, d.AnnualHDD("Minneapolis", "Minnesota"))
		assert.Equal(t, 780.0, d.AnnualCDD("Minneapolis", "Minnesota"))
	})

	t.Run("lookup is case and whitespace insensitive", func(t *testing.T) {
		assert.Equal(t, 6250.0, d.AnnualHDD("  CHICAGO ", "illinois"))
	})

	t.Run("unknown city never fails", func(t *testing.T) {
		assert.False(t, d.Known("Nowhere", "Kansas"))
		assert.Equal(t, DefaultAnnualHDD, d.AnnualHDD("Nowhere", "Kansas"))
		assert.Equal(t, DefaultAnnualCDD, d.AnnualCDD("Nowhere", "Kansas"))
	})
}

func TestMonthlyApportionment(t *testing.T) {
	t.Run("months sum to annual HDD", func(t *testing.T) {
		annual := 6250.0
		var sum float64
		for m := time.January; m <= time.December; m++ {
			monthHDD := MonthHDD(annual, m)
			assert.GreaterOrEqual(t, monthHDD, 0.0)
			sum += monthHDD
		}
		assert.InDelta(t, annual, sum, 1e-6)
	})

	t.Run("months sum to annual CDD", func(t *testing.T) {
		annual := 940.0
		var sum float64
		for m := time.January; m <= time.December; m++ {
			sum += MonthCDD(annual, m)
		}
		assert.InDelta(t, annual, sum, 1e-6)
	})

	t.Run("winter dominates HDD, summer dominates CDD", func(t *testing.T) {
		assert.Greater(t, MonthHDD(5000, time.January), MonthHDD(5000, time.July))
		assert.Greater(t, MonthCDD(1500, time.July), MonthCDD(1500, time.January))
	})
}

func TestOpenMeteoDailySeries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "fahrenheit", r.URL.Query().Get("temperature_unit"))
		resp := map[string]any{
			"elevation": 0,
			"daily": map[string]any{
				"time":               []string{"2025-01-01", "2025-01-02"},
				"temperature_2m_max": []float64{40.0, 42.0},
				"temperature_2m_min": []float64{20.0, 26.0},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	o := &OpenMeteo{
		apiURL:   srv.URL,
		client:   srv.Client(),
		cached:   make(map[string]types.WeatherSeries),
		cachedAt: make(map[string]time.Time),
		cacheTTL: time.Hour,
	}

	loc := types.Location{Lat: 44.98, Lon: -93.27}
	series, err := o.DailySeries(context.Background(), loc, 2025, time.January)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 20.0, series[0].LowF)
	assert.Equal(t, 40.0, series[0].HighF)
	assert.Equal(t, 30.0, series[0].AvgF)
	assert.Equal(t, 34.0, series[1].AvgF)

	t.Run("second request is served from cache", func(t *testing.T) {
		_, err := o.DailySeries(context.Background(), loc, 2025, time.January)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("elevation correction shifts the series", func(t *testing.T) {
		highLoc := loc
		highLoc.HomeElevationFt = 2000
		highLoc.StationElevationFt = 1000
		series, err := o.DailySeries(context.Background(), highLoc, 2025, time.February)
		require.NoError(t, err)
		// 1000 ft higher -> -3.5F
		assert.InDelta(t, 16.5, series[0].LowF, 1e-9)
		assert.InDelta(t, 36.5, series[0].HighF, 1e-9)
	})
}

func TestWeatherSeriesOffset(t *testing.T) {
	series := types.WeatherSeries{{LowF: 10, HighF: 30, AvgF: 20}}
	shifted := series.Offset(types.PolarVortexOffsetF)
	assert.Equal(t, 5.0, shifted[0].LowF)
	assert.Equal(t, 25.0, shifted[0].HighF)
	assert.Equal(t, 15.0, shifted[0].AvgF)
	// original untouched
	assert.Equal(t, 10.0, series[0].LowF)
}
