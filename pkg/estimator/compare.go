package estimator

import (
	"context"
	"sync"
	"time"

	"github.com/hearthcast/hearthcast/pkg/types"
)

// Comparison holds the same month estimated at two locations. Each side is
// computed independently with its own weather, climatology, and rates.
type Comparison struct {
	A types.CostEstimate `json:"a"`
	B types.CostEstimate `json:"b"`
	// Delta is B minus A, negative when B is cheaper.
	Delta float64 `json:"delta"`
}

// CompareLocations estimates the same month and settings at two locations
// concurrently.
func (e *Engine) CompareLocations(ctx context.Context, settings types.Settings, year int, month time.Month, mode EnergyMode, locA, locB types.Location) Comparison {
	var cmp Comparison
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		cmp.A = e.MonthlyEstimate(ctx, MonthParams{
			Settings:         settings,
			Year:             year,
			Month:            month,
			Mode:             mode,
			OverrideLocation: &locA,
		})
	}()
	go func() {
		defer wg.Done()
		cmp.B = e.MonthlyEstimate(ctx, MonthParams{
			Settings:         settings,
			Year:             year,
			Month:            month,
			Mode:             mode,
			OverrideLocation: &locB,
		})
	}()
	wg.Wait()
	cmp.Delta = cmp.B.Cost - cmp.A.Cost
	return cmp
}
