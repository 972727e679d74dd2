package estimator

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/thermal"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// heatPumpMonth walks every hour of the month. This is the only path with
// hourly granularity: capacity, load, and the compressor/aux split all depend
// on the hour's synthesized temperature and the schedule's setpoint.
func (e *Engine) heatPumpMonth(ctx context.Context, p MonthParams, series types.WeatherSeries) types.CostEstimate {
	s := p.Settings
	lossPerDeg := thermal.LossPerDegree(s.Building, s.AnalyzerHeatLossBtuPerDegF)
	tons := s.System.Tons()
	sched := s.Schedule()

	bp := thermal.BalancePoint(lossPerDeg, indoorHeatAvg(sched), tons)
	auxPossible := bp != nil

	est := types.CostEstimate{
		Method:          types.MethodHourlyHeatPump,
		ElectricityRate: p.ElectricityRate.Rate,
		BalancePointF:   bp,
		Days:            len(series),
	}

	var tempSum float64
	for _, day := range series {
		tempSum += day.AvgF
		hours := thermal.HourlyTemps(day.LowF, day.HighF)
		weekday := day.Date.Weekday()
		for h, outdoor := range hours {
			indoor := sched.SetpointsAt(h, weekday).HeatF
			if outdoor >= indoor {
				continue
			}
			step := thermal.HeatPumpHour(thermal.HeatPumpInput{
				LossPerDegree:  lossPerDeg,
				IndoorF:        indoor,
				OutdoorF:       outdoor,
				Tons:           tons,
				HSPF2:          s.System.HeatingEfficiency(),
				UseElectricAux: s.System.UseElectricAuxHeat,
				DtHours:        1,
			})
			est.EnergyKWH += step.CompressorKWH
			if auxPossible {
				est.AuxEnergyKWH += step.AuxKWH
				est.ExcludedAuxEnergyKWH += step.ExcludedAuxKWH
			}
		}
	}
	if len(series) > 0 {
		est.AvgDailyTempF = tempSum / float64(len(series))
	}

	est.Cost = (est.EnergyKWH + est.AuxEnergyKWH) * p.ElectricityRate.Rate
	log.Ctx(ctx).DebugContext(
		ctx,
		"heat pump month computed",
		slog.Int("days", est.Days),
		slog.Float64("kwh", est.EnergyKWH),
		slog.Float64("auxKWH", est.AuxEnergyKWH),
		slog.Float64("cost", est.Cost),
	)
	return est
}

// gasHeatingMonth runs the furnace model day by day: the furnace always meets
// the load, so hourly capacity modeling is unnecessary.
func (e *Engine) gasHeatingMonth(ctx context.Context, p MonthParams, series types.WeatherSeries) types.CostEstimate {
	s := p.Settings
	lossPerDeg := thermal.LossPerDegree(s.Building, s.AnalyzerHeatLossBtuPerDegF)
	afue := s.System.EffectiveAFUE()
	sched := s.Schedule()
	indoor := indoorHeatAvg(sched)

	est := types.CostEstimate{
		Method:  types.MethodDailyGas,
		GasRate: p.GasRate.Rate,
		Days:    len(series),
	}

	var tempSum float64
	for _, day := range series {
		tempSum += day.AvgF
		delta := indoor - day.AvgF
		if delta <= 0 {
			continue
		}
		dailyBtu := lossPerDeg * delta * 24
		est.Therms += dailyBtu / (thermal.BtuPerTherm * afue)
	}
	if len(series) > 0 {
		est.AvgDailyTempF = tempSum / float64(len(series))
	}

	est.Cost = est.Therms * p.GasRate.Rate
	log.Ctx(ctx).DebugContext(
		ctx,
		"gas furnace month computed",
		slog.Int("days", est.Days),
		slog.Float64("therms", est.Therms),
		slog.Float64("cost", est.Cost),
	)
	return est
}

// coolingMonth runs the cooling model day by day with the daily capacity cap.
func (e *Engine) coolingMonth(ctx context.Context, p MonthParams, series types.WeatherSeries) types.CostEstimate {
	s := p.Settings
	gainPerDeg := thermal.GainPerDegree(s.Building)
	sched := s.Schedule()
	indoor := indoorCoolAvg(sched)

	est := types.CostEstimate{
		Method:          types.MethodDailyCooling,
		ElectricityRate: p.ElectricityRate.Rate,
		Days:            len(series),
	}

	var tempSum float64
	for _, day := range series {
		tempSum += day.AvgF
		cd := thermal.CoolingDayEnergy(thermal.CoolingDayInput{
			GainPerDegree: gainPerDeg,
			IndoorF:       indoor,
			DayAvgF:       day.AvgF,
			Tons:          s.System.Tons(),
			SEER2:         s.System.SEER2,
			HumidityPct:   s.HumidityPct,
		})
		est.EnergyKWH += cd.KWH
		est.UnmetHours += cd.UnmetHours
	}
	if len(series) > 0 {
		est.AvgDailyTempF = tempSum / float64(len(series))
	}

	est.Cost = est.EnergyKWH * p.ElectricityRate.Rate
	log.Ctx(ctx).DebugContext(
		ctx,
		"cooling month computed",
		slog.Int("days", est.Days),
		slog.Float64("kwh", est.EnergyKWH),
		slog.Int("unmetHours", est.UnmetHours),
		slog.Float64("cost", est.Cost),
	)
	return est
}

// autoMonth lets the schedule decide per hour: heat below the heat setpoint,
// cool above the cool setpoint, idle in the deadband. Heating hours run the
// heat pump model, or the furnace therms model when the primary system burns
// gas; cooling hours are always electric.
func (e *Engine) autoMonth(ctx context.Context, p MonthParams, series types.WeatherSeries) types.CostEstimate {
	s := p.Settings
	lossPerDeg := thermal.LossPerDegree(s.Building, s.AnalyzerHeatLossBtuPerDegF)
	gainPerDeg := thermal.GainPerDegree(s.Building)
	tons := s.System.Tons()
	sched := s.Schedule()
	gasHeat := s.System.PrimarySystem == types.SystemGasFurnace
	afue := s.System.EffectiveAFUE()

	// a furnace always meets the load, so the balance point only applies to
	// heat pump heating
	var bp *float64
	if !gasHeat {
		bp = thermal.BalancePoint(lossPerDeg, indoorHeatAvg(sched), tons)
	}
	auxPossible := bp != nil

	est := types.CostEstimate{
		Method:          types.MethodHourlyAuto,
		ElectricityRate: p.ElectricityRate.Rate,
		BalancePointF:   bp,
		Days:            len(series),
	}
	if gasHeat {
		est.GasRate = p.GasRate.Rate
	}

	dailyCapBtu := tons * thermal.BtuPerTonHour * 24
	var tempSum float64
	for _, day := range series {
		tempSum += day.AvgF
		hours := thermal.HourlyTemps(day.LowF, day.HighF)
		weekday := day.Date.Weekday()
		var coolBtu float64
		for h, outdoor := range hours {
			sp := sched.SetpointsAt(h, weekday)
			switch {
			case outdoor < sp.HeatF:
				if gasHeat {
					hourlyBtu := lossPerDeg * (sp.HeatF - outdoor)
					est.Therms += hourlyBtu / (thermal.BtuPerTherm * afue)
					continue
				}
				step := thermal.HeatPumpHour(thermal.HeatPumpInput{
					LossPerDegree:  lossPerDeg,
					IndoorF:        sp.HeatF,
					OutdoorF:       outdoor,
					Tons:           tons,
					HSPF2:          s.System.HeatingEfficiency(),
					UseElectricAux: s.System.UseElectricAuxHeat,
					DtHours:        1,
				})
				est.EnergyKWH += step.CompressorKWH
				if auxPossible {
					est.AuxEnergyKWH += step.AuxKWH
					est.ExcludedAuxEnergyKWH += step.ExcludedAuxKWH
				}
			case outdoor > sp.CoolF:
				sensible := gainPerDeg * (outdoor - sp.CoolF)
				coolBtu += sensible * thermal.LatentLoadMultiplier(s.HumidityPct)
			}
		}
		if coolBtu > 0 {
			capped := math.Min(coolBtu, dailyCapBtu)
			if coolBtu > dailyCapBtu {
				unmet := int(math.Ceil((coolBtu - dailyCapBtu) / (tons * thermal.BtuPerTonHour)))
				if unmet > 24 {
					unmet = 24
				}
				est.UnmetHours += unmet
			}
			eff := s.System.SEER2 * thermal.CoolingEfficiencyMultiplier(day.AvgF)
			if eff > 0 {
				est.EnergyKWH += capped / (eff * 1000)
			}
		}
	}
	if len(series) > 0 {
		est.AvgDailyTempF = tempSum / float64(len(series))
	}

	est.Cost = (est.EnergyKWH+est.AuxEnergyKWH)*p.ElectricityRate.Rate +
		est.Therms*p.GasRate.Rate
	return est
}

// SyntheticSeries builds a sinusoidal daily series for a month from climate
// normals: a flat monthly average with a fixed diurnal swing around it. Used
// when no observed weather is available but hourly modeling is still wanted.
func (e *Engine) SyntheticSeries(loc types.Location, year int, month time.Month) types.WeatherSeries {
	days := daysIn(year, month)
	hdd := climate.MonthHDD(e.degreeDays.AnnualHDD(loc.City, loc.State), month)
	cdd := climate.MonthCDD(e.degreeDays.AnnualCDD(loc.City, loc.State), month)
	avg := climate.BaseTempF - hdd/float64(days) + cdd/float64(days)

	series := make(types.WeatherSeries, 0, days)
	for d := 1; d <= days; d++ {
		series = append(series, types.DailyTemp{
			Date:  time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
			LowF:  avg - syntheticSwingF/2,
			HighF: avg + syntheticSwingF/2,
			AvgF:  avg,
		})
	}
	return series
}

// syntheticSwingF is the assumed diurnal range when synthesizing weather.
const syntheticSwingF = 20.0
