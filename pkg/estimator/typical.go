package estimator

import (
	"context"
	"log/slog"
	"math"

	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/thermal"
	"github.com/hearthcast/hearthcast/pkg/types"
)

const (
	// baselineHeatF and baselineCoolF anchor the setpoint temperature
	// multiplier: the degree-day normals assume these indoor temperatures, and
	// the multiplier scales consumption for schedules that deviate.
	baselineHeatF = 70.0
	baselineCoolF = 75.0

	// linearFallbackDollarsPerDegWeek is the last-resort cost slope when no
	// climatology exists for the location.
	linearFallbackDollarsPerDegWeek = 0.50
)

// typicalEstimate computes a month directly from degree-day climatology,
// without iterating days or hours. Locations missing from the normals table
// drop to the linear fallback.
func (e *Engine) typicalEstimate(ctx context.Context, p MonthParams) types.CostEstimate {
	loc := p.location()
	if !e.degreeDays.Known(loc.City, loc.State) && loc.City != "" {
		log.Ctx(ctx).DebugContext(
			ctx,
			"no climate normals for location, using linear fallback",
			slog.String("city", loc.City),
			slog.String("state", loc.State),
		)
		return e.linearFallback(p)
	}

	switch p.Mode {
	case ModeCooling:
		return e.typicalCDDCost(ctx, p)
	case ModeAuto:
		heat := e.typicalHDDCost(ctx, p)
		cool := e.typicalCDDCost(ctx, p)
		return combineEstimates(heat, cool)
	default:
		return e.typicalHDDCost(ctx, p)
	}
}

// setpointMultiplier scales degree-day consumption for the schedule's actual
// indoor temperature versus the baseline the normals assume.
func setpointMultiplier(indoorF, baselineF, outdoorF float64) float64 {
	baseDelta := baselineF - outdoorF
	actualDelta := indoorF - outdoorF
	if baseDelta <= 0 {
		baseDelta, actualDelta = -baseDelta, -actualDelta
	}
	if baseDelta == 0 {
		return 1
	}
	return math.Max(0, actualDelta/baseDelta)
}

// typicalHDDCost estimates a month's heating cost from its HDD share.
func (e *Engine) typicalHDDCost(ctx context.Context, p MonthParams) types.CostEstimate {
	s := p.Settings
	loc := p.location()
	days := daysIn(p.Year, p.Month)
	monthHDD := climate.MonthHDD(e.degreeDays.AnnualHDD(loc.City, loc.State), p.Month)
	avgOut := climate.BaseTempF - monthHDD/float64(days)

	lossPerDeg := thermal.LossPerDegree(s.Building, s.AnalyzerHeatLossBtuPerDegF)
	sched := s.Schedule()
	indoor := indoorHeatAvg(sched)
	heatBtu := lossPerDeg * monthHDD * 24 * setpointMultiplier(indoor, baselineHeatF, avgOut)

	est := types.CostEstimate{
		Method:        types.MethodDegreeDays,
		Days:          days,
		AvgDailyTempF: avgOut,
		HDD:           monthHDD,
	}

	if s.System.PrimarySystem == types.SystemGasFurnace {
		est.GasRate = p.GasRate.Rate
		est.Therms = heatBtu / (thermal.BtuPerTherm * s.System.EffectiveAFUE())
		est.Cost = est.Therms * p.GasRate.Rate
		return est
	}

	tons := s.System.Tons()
	bp := thermal.BalancePoint(lossPerDeg, indoor, tons)
	est.BalancePointF = bp
	est.ElectricityRate = p.ElectricityRate.Rate

	// monthly average compressor output at the month's average temperature,
	// using the rated-point derate curve
	outputBtuPerHour := tons * thermal.BtuPerTonHour * thermal.RatedCapacityFactor(avgOut)
	loadBtuPerHour := heatBtu / (float64(days) * 24)

	compressorBtu := heatBtu
	var auxBtu float64
	if bp != nil && loadBtuPerHour > outputBtuPerHour && loadBtuPerHour > 0 {
		compressorBtu = heatBtu * outputBtuPerHour / loadBtuPerHour
		auxBtu = heatBtu - compressorBtu
	}

	if eff := s.System.HeatingEfficiency(); eff > 0 {
		est.EnergyKWH = compressorBtu / (eff * 1000)
	}
	auxKWH := auxBtu / thermal.BtuPerKWH
	if s.System.UseElectricAuxHeat {
		est.AuxEnergyKWH = auxKWH
	} else {
		est.ExcludedAuxEnergyKWH = auxKWH
	}

	est.Cost = (est.EnergyKWH + est.AuxEnergyKWH) * p.ElectricityRate.Rate
	log.Ctx(ctx).DebugContext(
		ctx,
		"typical heating month computed",
		slog.Float64("hdd", monthHDD),
		slog.Float64("avgOut", avgOut),
		slog.Float64("cost", est.Cost),
	)
	return est
}

// typicalCDDCost estimates a month's cooling cost from its CDD share.
func (e *Engine) typicalCDDCost(ctx context.Context, p MonthParams) types.CostEstimate {
	s := p.Settings
	loc := p.location()
	days := daysIn(p.Year, p.Month)
	monthCDD := climate.MonthCDD(e.degreeDays.AnnualCDD(loc.City, loc.State), p.Month)
	avgOut := climate.BaseTempF + monthCDD/float64(days)

	est := types.CostEstimate{
		Method:          types.MethodDegreeDays,
		Days:            days,
		AvgDailyTempF:   avgOut,
		CDD:             monthCDD,
		ElectricityRate: p.ElectricityRate.Rate,
	}
	if monthCDD == 0 {
		return est
	}

	sched := s.Schedule()
	indoor := indoorCoolAvg(sched)
	gainPerDeg := thermal.GainPerDegree(s.Building)
	coolBtu := gainPerDeg * monthCDD * 24 * setpointMultiplier(indoor, baselineCoolF, avgOut)
	coolBtu *= thermal.LatentLoadMultiplier(s.HumidityPct)

	// cap at what the equipment can move over the month
	tons := s.System.Tons()
	capBtu := tons * thermal.BtuPerTonHour * thermal.CoolingCapacityFactor(avgOut) * 24 * float64(days)
	coolBtu = math.Min(coolBtu, capBtu)

	eff := s.System.SEER2 * thermal.CoolingEfficiencyMultiplier(avgOut)
	if eff > 0 {
		est.EnergyKWH = coolBtu / (eff * 1000)
	}
	est.Cost = est.EnergyKWH * p.ElectricityRate.Rate
	log.Ctx(ctx).DebugContext(
		ctx,
		"typical cooling month computed",
		slog.Float64("cdd", monthCDD),
		slog.Float64("avgOut", avgOut),
		slog.Float64("cost", est.Cost),
	)
	return est
}

// linearFallback is the estimate of last resort: a flat dollars-per-degree
// slope against the default climatology, so a user with an unknown city still
// sees a number instead of an error.
func (e *Engine) linearFallback(p MonthParams) types.CostEstimate {
	days := daysIn(p.Year, p.Month)
	sched := p.Settings.Schedule()

	var tempDiff, avgOut float64
	if p.Mode == ModeCooling {
		monthCDD := climate.MonthCDD(climate.DefaultAnnualCDD, p.Month)
		avgOut = climate.BaseTempF + monthCDD/float64(days)
		tempDiff = avgOut - indoorCoolAvg(sched)
	} else {
		monthHDD := climate.MonthHDD(climate.DefaultAnnualHDD, p.Month)
		avgOut = climate.BaseTempF - monthHDD/float64(days)
		tempDiff = indoorHeatAvg(sched) - avgOut
	}

	weeks := float64(days) / 7
	return types.CostEstimate{
		Method:        types.MethodLinearFallback,
		Days:          days,
		AvgDailyTempF: avgOut,
		Cost:          math.Max(0, tempDiff) * 7 * linearFallbackDollarsPerDegWeek * weeks,
	}
}

// combineEstimates merges a heating and a cooling estimate into one (auto
// mode over climatology).
func combineEstimates(heat, cool types.CostEstimate) types.CostEstimate {
	est := heat
	est.Cost += cool.Cost
	est.FixedCost += cool.FixedCost
	est.EnergyKWH += cool.EnergyKWH
	est.UnmetHours += cool.UnmetHours
	est.CDD = cool.CDD
	return est
}
