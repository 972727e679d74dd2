package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthcast/hearthcast/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSource always reports unavailable.
type failingSource struct{ name types.RateSource }

func (f failingSource) Name() types.RateSource { return f.name }
func (f failingSource) Rate(context.Context, types.FuelKind, string) (float64, time.Time, error) {
	return 0, time.Time{}, fmt.Errorf("unavailable")
}

// fixedSource returns a constant rate.
type fixedSource struct {
	name types.RateSource
	rate float64
	ts   time.Time
}

func (f fixedSource) Name() types.RateSource { return f.name }
func (f fixedSource) Rate(context.Context, types.FuelKind, string) (float64, time.Time, error) {
	return f.rate, f.ts, nil
}

func TestChainFallbackOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("first available source wins", func(t *testing.T) {
		now := time.Now()
		chain := NewChain(
			fixedSource{name: types.RateSourceLive, rate: 0.11, ts: now},
			fixedSource{name: types.RateSourceStateAverage, rate: 0.22},
		)
		q := chain.Quote(ctx, types.FuelElectricity, "Illinois")
		assert.Equal(t, 0.11, q.Rate)
		assert.Equal(t, types.RateSourceLive, q.Source)
		assert.Equal(t, now, q.Timestamp)
	})

	t.Run("failure falls through in order", func(t *testing.T) {
		chain := NewChain(
			failingSource{name: types.RateSourceLive},
			fixedSource{name: types.RateSourceStateAverage, rate: 0.22},
		)
		q := chain.Quote(ctx, types.FuelElectricity, "Illinois")
		assert.Equal(t, 0.22, q.Rate)
		assert.Equal(t, types.RateSourceStateAverage, q.Source)
	})

	t.Run("exhausted chain still returns the national default", func(t *testing.T) {
		chain := NewChain(failingSource{name: types.RateSourceLive})
		q := chain.Quote(ctx, types.FuelGas, "Illinois")
		assert.Equal(t, types.RateSourceNationalDefault, q.Source)
		assert.Greater(t, q.Rate, 0.0)
	})
}

func TestStateTable(t *testing.T) {
	ctx := context.Background()
	table := NewStateTable()

	t.Run("known state", func(t *testing.T) {
		rate, _, err := table.Rate(ctx, types.FuelElectricity, "Illinois")
		require.NoError(t, err)
		assert.Equal(t, 0.16, rate)

		gas, _, err := table.Rate(ctx, types.FuelGas, "illinois")
		require.NoError(t, err)
		assert.Equal(t, 1.05, gas)
	})

	t.Run("unknown state falls through", func(t *testing.T) {
		_, _, err := table.Rate(ctx, types.FuelElectricity, "Atlantis")
		assert.Error(t, err)
	})

	t.Run("national default never fails", func(t *testing.T) {
		rate, _, err := NewNationalDefault().Rate(ctx, types.FuelElectricity, "Atlantis")
		require.NoError(t, err)
		assert.Equal(t, 0.16, rate)
	})
}

func TestEIARate(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without api key", func(t *testing.T) {
		e := &EIA{cached: make(map[string]cachedQuote)}
		_, _, err := e.Rate(ctx, types.FuelElectricity, "Illinois")
		assert.Error(t, err)
	})

	t.Run("fetches, converts and caches", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, "IL", r.URL.Query().Get("facets[stateid][]"))
			resp := map[string]any{
				"response": map[string]any{
					"data": []map[string]any{{"price": 15.5}},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer srv.Close()

		e := &EIA{
			apiURL:   srv.URL,
			apiKey:   "test",
			client:   srv.Client(),
			cached:   make(map[string]cachedQuote),
			cacheTTL: time.Hour,
		}

		rate, ts, err := e.Rate(ctx, types.FuelElectricity, "Illinois")
		require.NoError(t, err)
		// cents/kWh -> $/kWh
		assert.InDelta(t, 0.155, rate, 1e-9)
		assert.False(t, ts.IsZero())

		// second call served from cache
		_, _, err = e.Rate(ctx, types.FuelElectricity, "Illinois")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("unknown state", func(t *testing.T) {
		e := &EIA{apiKey: "test", cached: make(map[string]cachedQuote)}
		_, _, err := e.Rate(ctx, types.FuelElectricity, "Atlantis")
		assert.Error(t, err)
	})
}
