// Package estimator drives the thermal models over weather data to produce
// monthly and annual cost estimates. All calculation paths degrade to a
// best-effort estimate instead of failing: missing weather falls back to
// degree-day climatology, missing climatology to a linear approximation.
package estimator

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthcast/hearthcast/pkg/cache"
	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/rates"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// EnergyMode selects which load a calculation covers.
type EnergyMode string

const (
	ModeHeating EnergyMode = "heating"
	ModeCooling EnergyMode = "cooling"
	// ModeAuto lets the schedule decide per hour whether the system heats,
	// cools, or idles in the deadband.
	ModeAuto EnergyMode = "auto"
)

// Engine orchestrates the thermal models, weather data, and rates.
type Engine struct {
	degreeDays *climate.DegreeDays
	weather    climate.WeatherProvider
	rates      *rates.Chain
	estimates  cache.Cache[types.CostEstimate]
}

// New creates an Engine. The cache is injectable; pass an in-memory cache in
// tests.
func New(dd *climate.DegreeDays, w climate.WeatherProvider, r *rates.Chain, c cache.Cache[types.CostEstimate]) *Engine {
	return &Engine{
		degreeDays: dd,
		weather:    w,
		rates:      r,
		estimates:  c,
	}
}

// MonthParams are the inputs for one monthly estimate.
type MonthParams struct {
	Settings types.Settings
	Year     int
	Month    time.Month
	Mode     EnergyMode

	// Strategy overrides the settings default when non-empty.
	Strategy types.WeatherStrategy

	// Series, when non-empty, is used directly instead of fetching weather.
	Series types.WeatherSeries

	// OverrideLocation replaces the settings location (A/B comparison).
	OverrideLocation *types.Location

	// Rates, when zero, are resolved through the fallback chain.
	ElectricityRate types.RateQuote
	GasRate         types.RateQuote
}

func (p MonthParams) location() types.Location {
	if p.OverrideLocation != nil {
		return *p.OverrideLocation
	}
	return p.Settings.Location
}

func (p MonthParams) strategy() types.WeatherStrategy {
	if p.Strategy != "" {
		return p.Strategy
	}
	if p.Settings.WeatherStrategy != "" {
		return p.Settings.WeatherStrategy
	}
	return types.WeatherTypical
}

// daysIn returns the number of days in the month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// resolveRates fills in any zero rate through the fallback chain.
func (e *Engine) resolveRates(ctx context.Context, p *MonthParams) {
	state := p.location().State
	if p.ElectricityRate.Rate == 0 {
		p.ElectricityRate = e.rates.Quote(ctx, types.FuelElectricity, state)
	}
	if p.GasRate.Rate == 0 && p.Settings.System.PrimarySystem == types.SystemGasFurnace {
		p.GasRate = e.rates.Quote(ctx, types.FuelGas, state)
	}
}

// MonthlyEstimate computes the cost estimate for one month. It never fails:
// strategies degrade through the documented fallback chain.
func (e *Engine) MonthlyEstimate(ctx context.Context, p MonthParams) types.CostEstimate {
	strategy := p.strategy()
	loc := p.location()

	// rates are resolved before the cache lookup so a rate change invalidates
	// the key along with every other input
	e.resolveRates(ctx, &p)

	// quote timestamps stay out of the digest so a refetch of an unchanged
	// rate keeps hitting the same entry
	digest := cache.InputsDigest(struct {
		Settings        types.Settings `json:"settings"`
		ElectricityRate float64        `json:"electricityRate"`
		GasRate         float64        `json:"gasRate"`
	}{p.Settings, p.ElectricityRate.Rate, p.GasRate.Rate})
	key := cache.EstimateKey(loc.Lat, loc.Lon, p.Year, p.Month, string(strategy)+"/"+string(p.Mode), digest)
	if len(p.Series) == 0 {
		if est, ok := e.estimates.Get(key); ok {
			log.Ctx(ctx).DebugContext(ctx, "estimate served from cache", slog.String("key", key))
			return est
		}
	}

	est := e.monthlyEstimate(ctx, p, strategy)

	if len(p.Series) == 0 {
		e.estimates.Put(key, est, cache.EstimateTTL)
	}
	return est
}

func (e *Engine) monthlyEstimate(ctx context.Context, p MonthParams, strategy types.WeatherStrategy) types.CostEstimate {
	est := e.computeMonth(ctx, p, strategy)
	e.applyFixedCharges(&est, p)
	return est
}

// computeMonth produces the variable-cost estimate for one month, before any
// fixed charge attribution.
func (e *Engine) computeMonth(ctx context.Context, p MonthParams, strategy types.WeatherStrategy) types.CostEstimate {
	series := p.Series
	if len(series) == 0 && strategy != types.WeatherTypical {
		fetched, err := e.weather.DailySeries(ctx, p.location(), p.Year, p.Month)
		if err != nil {
			log.Ctx(ctx).WarnContext(
				ctx,
				"weather unavailable, falling back to climatology",
				slog.String("strategy", string(strategy)),
				slog.Any("error", err),
			)
		} else {
			series = fetched
		}
	}
	if strategy == types.WeatherPolarVortex && len(series) > 0 {
		series = series.Offset(types.PolarVortexOffsetF)
	}

	var est types.CostEstimate
	if len(series) == 0 {
		// typical strategy, or weather fetch failed
		est = e.typicalEstimate(ctx, p)
	} else {
		switch p.Mode {
		case ModeCooling:
			est = e.coolingMonth(ctx, p, series)
		case ModeAuto:
			est = e.autoMonth(ctx, p, series)
		default:
			if p.Settings.System.PrimarySystem == types.SystemGasFurnace {
				est = e.gasHeatingMonth(ctx, p, series)
			} else {
				est = e.heatPumpMonth(ctx, p, series)
			}
		}
	}
	return est
}

// addFixed is the only mutation applied to a finished estimate: the fixed
// monthly charge is folded into the total while staying separately reported.
func addFixed(est *types.CostEstimate, amount float64) {
	est.FixedCost += amount
	est.Cost += amount
}

// applyFixedCharges attributes the fixed monthly service charges to the
// estimate per the fuel-dominance rule: the gas fee belongs to heating cost
// only when gas-heating with HDD in the month; the electric fee goes to
// whichever of heating/cooling is larger, tie-broken by calendar season.
func (e *Engine) applyFixedCharges(est *types.CostEstimate, p MonthParams) {
	s := p.Settings
	gasHeat := s.System.PrimarySystem == types.SystemGasFurnace

	loc := p.location()
	monthHDD := climate.MonthHDD(e.degreeDays.AnnualHDD(loc.City, loc.State), p.Month)

	switch p.Mode {
	case ModeCooling:
		// electric fee goes to cooling when cooling dominates the month
		if e.electricFeeBucket(p, monthHDD) == ModeCooling {
			addFixed(est, s.ElectricFixedMonthly)
		}
	default:
		if gasHeat {
			if monthHDD > 0 {
				addFixed(est, s.GasFixedMonthly)
			}
			return
		}
		if e.electricFeeBucket(p, monthHDD) != ModeCooling {
			addFixed(est, s.ElectricFixedMonthly)
		}
	}
}

// electricFeeBucket decides whether the electric fixed fee belongs to the
// heating or cooling bucket this month.
func (e *Engine) electricFeeBucket(p MonthParams, monthHDD float64) EnergyMode {
	loc := p.location()
	monthCDD := climate.MonthCDD(e.degreeDays.AnnualCDD(loc.City, loc.State), p.Month)

	// gas-heated homes have no electric heating bucket
	if p.Settings.System.PrimarySystem == types.SystemGasFurnace {
		return ModeCooling
	}
	if monthHDD > monthCDD {
		return ModeHeating
	}
	if monthCDD > monthHDD {
		return ModeCooling
	}
	// tie-break by season: November through March is heating season
	if p.Month >= time.November || p.Month <= time.March {
		return ModeHeating
	}
	return ModeCooling
}

// indoorHeatAvg is the schedule-weighted average heat setpoint over a day.
func indoorHeatAvg(s types.Schedule) float64 {
	var sum float64
	for h := 0; h < 24; h++ {
		sum += s.SetpointsAt(h, time.Monday).HeatF
	}
	return sum / 24
}

// indoorCoolAvg is the schedule-weighted average cool setpoint over a day.
func indoorCoolAvg(s types.Schedule) float64 {
	var sum float64
	for h := 0; h < 24; h++ {
		sum += s.SetpointsAt(h, time.Monday).CoolF
	}
	return sum / 24
}
