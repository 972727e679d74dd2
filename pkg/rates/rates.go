// Package rates resolves electricity and gas prices for a state. Resolution
// is an ordered fallback chain: a live quote from the EIA open-data API, then
// a static per-state average table, then the national default. The chain
// itself never fails; only individual strategies do.
package rates

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// Source is one strategy in the fallback chain.
type Source interface {
	// Name identifies which strategy produced a quote.
	Name() types.RateSource

	// Rate returns the price for the fuel in the given state ($/kWh for
	// electricity, $/therm for gas). A strategy that cannot serve the state
	// returns an error and the chain moves on.
	Rate(ctx context.Context, fuel types.FuelKind, state string) (float64, time.Time, error)
}

// Chain tries its sources in order and returns the first quote.
type Chain struct {
	sources []Source
}

// NewChain builds a chain from sources in priority order.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Configured sets up the default live -> state average -> national default
// chain.
func Configured() *Chain {
	return NewChain(ConfiguredEIA(), NewStateTable(), NewNationalDefault())
}

// Quote resolves a rate for the state. The final source in the configured
// chain cannot fail, so callers always get a usable quote.
func (c *Chain) Quote(ctx context.Context, fuel types.FuelKind, state string) types.RateQuote {
	for _, src := range c.sources {
		rate, ts, err := src.Rate(ctx, fuel, state)
		if err != nil {
			log.Ctx(ctx).DebugContext(
				ctx,
				"rate source unavailable, falling back",
				slog.String("source", string(src.Name())),
				slog.String("fuel", string(fuel)),
				slog.String("state", state),
				slog.Any("error", err),
			)
			continue
		}
		return types.RateQuote{
			Fuel:      fuel,
			Rate:      rate,
			Source:    src.Name(),
			Timestamp: ts,
		}
	}

	// every configured chain ends in the national default, so reaching here
	// means a custom chain was built without one
	log.Ctx(ctx).WarnContext(ctx, "rate chain exhausted", slog.String("fuel", string(fuel)), slog.String("state", state))
	return types.RateQuote{
		Fuel:   fuel,
		Rate:   nationalDefaultRate(fuel),
		Source: types.RateSourceNationalDefault,
	}
}
