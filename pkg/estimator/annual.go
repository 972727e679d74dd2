package estimator

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// AnnualParams are the inputs for a 12-month projection.
type AnnualParams struct {
	Settings types.Settings
	Year     int

	Strategy         types.WeatherStrategy
	OverrideLocation *types.Location
}

// AnnualEstimate projects all twelve months of a year. Each month degrades
// independently through the fallback tiers: observed weather when the provider
// has it, a synthetic sinusoidal series for the hourly heat pump model when it
// does not, and pure degree-day statistics last.
func (e *Engine) AnnualEstimate(ctx context.Context, p AnnualParams) types.AnnualEstimate {
	base := MonthParams{
		Settings:         p.Settings,
		Year:             p.Year,
		Strategy:         p.Strategy,
		OverrideLocation: p.OverrideLocation,
	}
	e.resolveRates(ctx, &base)
	loc := base.location()
	strategy := base.strategy()
	heatPump := p.Settings.System.PrimarySystem != types.SystemGasFurnace

	annual := types.AnnualEstimate{Months: make([]types.MonthEstimate, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		mp := base
		mp.Month = m

		series, synthetic := e.monthSeries(ctx, mp, strategy, heatPump)

		hp := mp
		hp.Mode = ModeHeating
		hp.Series = series
		cp := mp
		cp.Mode = ModeCooling
		if !synthetic {
			// a synthesized series only serves the hourly heating model;
			// cooling sticks to degree-day statistics unless the weather was
			// actually observed
			cp.Series = series
		}

		month := types.MonthEstimate{
			Month:   m,
			Heating: e.computeMonth(ctx, hp, strategy),
			Cooling: e.computeMonth(ctx, cp, strategy),
		}
		e.applyMonthFixedCharges(&month, base, m)
		annual.Months = append(annual.Months, month)

		annual.TotalCost += month.Heating.Cost + month.Cooling.Cost
		annual.TotalFixedCost += month.Heating.FixedCost + month.Cooling.FixedCost
		annual.TotalHeatingCost += month.Heating.Cost
		annual.TotalCoolingCost += month.Cooling.Cost
		annual.TotalEnergyKWH += month.Heating.EnergyKWH + month.Heating.AuxEnergyKWH + month.Cooling.EnergyKWH
		annual.TotalTherms += month.Heating.Therms
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"annual estimate computed",
		slog.String("city", loc.City),
		slog.Float64("totalCost", annual.TotalCost),
	)
	return annual
}

// monthSeries resolves the weather series for one month of the annual loop,
// or nil to fall through to the statistical path. The synthetic tier only
// applies to heat pumps: they are the only system modeled hour by hour.
func (e *Engine) monthSeries(ctx context.Context, p MonthParams, strategy types.WeatherStrategy, heatPump bool) (types.WeatherSeries, bool) {
	loc := p.location()
	if strategy != types.WeatherTypical {
		series, err := e.weather.DailySeries(ctx, loc, p.Year, p.Month)
		if err == nil {
			if strategy == types.WeatherPolarVortex {
				series = series.Offset(types.PolarVortexOffsetF)
			}
			return series, false
		}
		log.Ctx(ctx).WarnContext(
			ctx,
			"weather unavailable for month, trying synthetic series",
			slog.Int("month", int(p.Month)),
			slog.Any("error", err),
		)
	}
	if heatPump && e.degreeDays.Known(loc.City, loc.State) {
		return e.SyntheticSeries(loc, p.Year, p.Month), true
	}
	return nil, false
}

// applyMonthFixedCharges attributes the fixed monthly charges across a
// month's heating and cooling buckets. The gas fee belongs to gas heating
// whenever the month has any heating load; the electric fee follows the
// larger electric bucket, tie-broken by calendar season.
func (e *Engine) applyMonthFixedCharges(m *types.MonthEstimate, p MonthParams, month time.Month) {
	s := p.Settings
	gasHeat := s.System.PrimarySystem == types.SystemGasFurnace

	electricHeating := 0.0
	if gasHeat {
		if m.Heating.Cost > 0 || m.Heating.Therms > 0 {
			addFixed(&m.Heating, s.GasFixedMonthly)
		}
	} else {
		electricHeating = m.Heating.Cost
	}

	if s.ElectricFixedMonthly == 0 {
		return
	}
	switch {
	case electricHeating > m.Cooling.Cost:
		addFixed(&m.Heating, s.ElectricFixedMonthly)
	case m.Cooling.Cost > electricHeating:
		addFixed(&m.Cooling, s.ElectricFixedMonthly)
	case month >= time.November || month <= time.March:
		if gasHeat {
			addFixed(&m.Cooling, s.ElectricFixedMonthly)
		} else {
			addFixed(&m.Heating, s.ElectricFixedMonthly)
		}
	default:
		addFixed(&m.Cooling, s.ElectricFixedMonthly)
	}
}
