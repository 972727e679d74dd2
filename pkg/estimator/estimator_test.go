package estimator

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthcast/hearthcast/pkg/cache"
	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/rates"
	"github.com/hearthcast/hearthcast/pkg/types"
)

type fakeWeather struct {
	series types.WeatherSeries
	err    error
	calls  int
}

func (f *fakeWeather) DailySeries(_ context.Context, _ types.Location, year int, month time.Month) (types.WeatherSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type fixedRate struct {
	electricity float64
	gas         float64
}

func (f fixedRate) Name() types.RateSource { return types.RateSourceStateAverage }

func (f fixedRate) Rate(_ context.Context, fuel types.FuelKind, _ string) (float64, time.Time, error) {
	if fuel == types.FuelGas {
		return f.gas, time.Time{}, nil
	}
	return f.electricity, time.Time{}, nil
}

func testEngine(t *testing.T, w *fakeWeather) *Engine {
	t.Helper()
	dd, err := climate.NewDegreeDays()
	require.NoError(t, err)
	if w == nil {
		w = &fakeWeather{err: errors.New("no weather configured")}
	}
	chain := rates.NewChain(fixedRate{electricity: 0.15, gas: 1.20})
	return New(dd, w, chain, cache.NewMemory[types.CostEstimate]())
}

func testSettings() types.Settings {
	s, _, err := types.MigrateSettings(types.Settings{
		Building: types.BuildingSpec{SquareFeet: 1500},
		System: types.SystemSpec{
			PrimarySystem:      types.SystemHeatPump,
			CapacityKBTU:       36,
			SEER2:              15,
			HSPF2:              9,
			UseElectricAuxHeat: true,
		},
		Location: types.Location{City: "Minneapolis", State: "Minnesota", Lat: 44.98, Lon: -93.26},
	}, 0)
	if err != nil {
		panic(err)
	}
	return s
}

// flatSeries builds days all at the same low/high.
func flatSeries(year int, month time.Month, days int, low, high float64) types.WeatherSeries {
	series := make(types.WeatherSeries, 0, days)
	for d := 1; d <= days; d++ {
		series = append(series, types.DailyTemp{
			Date:  time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
			LowF:  low,
			HighF: high,
			AvgF:  (low + high) / 2,
		})
	}
	return series
}

func TestHeatPumpMonthColdIsMoreExpensive(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()
	s := testSettings()

	cold := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
		Series: flatSeries(2025, time.January, 31, 5, 25),
	})
	mild := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
		Series: flatSeries(2025, time.January, 31, 35, 55),
	})

	assert.Equal(t, types.MethodHourlyHeatPump, cold.Method)
	assert.Greater(t, cold.Cost, mild.Cost)
	assert.Greater(t, cold.EnergyKWH, 0.0)
	assert.Equal(t, 31, cold.Days)
	assert.InDelta(t, 15, cold.AvgDailyTempF, 0.001)
}

func TestHeatPumpAuxAccounting(t *testing.T) {
	ctx := context.Background()
	// leaky enough that deep cold exceeds compressor capacity
	s := testSettings()
	s.Building.SquareFeet = 2500
	series := flatSeries(2025, time.January, 31, -10, 0)

	e := testEngine(t, nil)
	withAux := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating, Series: series,
	})
	require.NotNil(t, withAux.BalancePointF)
	assert.Greater(t, withAux.AuxEnergyKWH, 0.0)
	assert.Zero(t, withAux.ExcludedAuxEnergyKWH)

	s.System.UseElectricAuxHeat = false
	e = testEngine(t, nil)
	noAux := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating, Series: series,
	})
	assert.Zero(t, noAux.AuxEnergyKWH)
	assert.Greater(t, noAux.ExcludedAuxEnergyKWH, 0.0)
	// disabling aux removes it from cost but the shortfall is still tracked
	assert.Less(t, noAux.Cost, withAux.Cost)
	assert.InDelta(t, withAux.AuxEnergyKWH, noAux.ExcludedAuxEnergyKWH, 1e-9)
}

func TestGasFurnaceDaily(t *testing.T) {
	ctx := context.Background()
	s := testSettings()
	s.System.PrimarySystem = types.SystemGasFurnace
	s.System.AFUE = 0.95
	// hold 70F around the clock so the daily delta is exactly 35
	s.DayNight.Day = types.Setpoints{HeatF: 70, CoolF: 76}
	s.DayNight.Night = types.Setpoints{HeatF: 70, CoolF: 76}

	e := testEngine(t, nil)
	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
		Series: flatSeries(2025, time.January, 1, 25, 45),
	})

	// 1500 sqft loses 485.786 BTU/hr/degF; one 35-degree day through a 95%
	// furnace burns 4.295 therms
	assert.Equal(t, types.MethodDailyGas, est.Method)
	assert.InDelta(t, 4.295, est.Therms, 0.001)
	assert.InDelta(t, 5.154, est.Cost, 0.01)
	assert.Zero(t, est.EnergyKWH)
}

func TestCoolingMonth(t *testing.T) {
	ctx := context.Background()
	s := testSettings()
	e := testEngine(t, nil)

	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.July, Mode: ModeCooling,
		Series: flatSeries(2025, time.July, 31, 75, 95),
	})
	assert.Equal(t, types.MethodDailyCooling, est.Method)
	assert.Greater(t, est.EnergyKWH, 0.0)
	assert.Greater(t, est.Cost, 0.0)
	assert.Zero(t, est.Therms)
}

func TestCoolingUnmetHours(t *testing.T) {
	ctx := context.Background()
	s := testSettings()
	s.Building.SquareFeet = 4000
	s.System.CapacityKBTU = 18

	e := testEngine(t, nil)
	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.July, Mode: ModeCooling,
		Series: flatSeries(2025, time.July, 31, 90, 110),
	})
	assert.Greater(t, est.UnmetHours, 0)
}

func TestTypicalFallbackWhenWeatherFails(t *testing.T) {
	ctx := context.Background()
	w := &fakeWeather{err: errors.New("upstream down")}
	e := testEngine(t, w)

	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: testSettings(), Year: 2025, Month: time.January, Mode: ModeHeating,
		Strategy: types.WeatherCurrent,
	})
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, types.MethodDegreeDays, est.Method)
	assert.Greater(t, est.Cost, 0.0)
	assert.Greater(t, est.HDD, 0.0)
}

func TestPolarVortexCostsMore(t *testing.T) {
	ctx := context.Background()
	series := flatSeries(2025, time.January, 31, 10, 30)
	s := testSettings()

	current := testEngine(t, &fakeWeather{series: series}).MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
		Strategy: types.WeatherCurrent,
	})
	vortex := testEngine(t, &fakeWeather{series: series}).MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
		Strategy: types.WeatherPolarVortex,
	})
	assert.Greater(t, vortex.Cost, current.Cost)
	assert.InDelta(t, current.AvgDailyTempF+types.PolarVortexOffsetF, vortex.AvgDailyTempF, 0.001)
}

func TestLinearFallbackUnknownCity(t *testing.T) {
	ctx := context.Background()
	s := testSettings()
	s.Location = types.Location{City: "Springfield", State: "Oz"}

	e := testEngine(t, nil)
	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
	})
	assert.Equal(t, types.MethodLinearFallback, est.Method)
	assert.Greater(t, est.Cost, 0.0)
}

func TestFixedCostAdditivity(t *testing.T) {
	ctx := context.Background()
	series := flatSeries(2025, time.January, 31, 10, 30)

	s := testSettings()
	base := testEngine(t, nil).MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating, Series: series,
	})
	require.Zero(t, base.FixedCost)

	s.ElectricFixedMonthly = 12.50
	withFee := testEngine(t, nil).MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating, Series: series,
	})
	// January heating dominates, so the electric fee lands on this estimate
	assert.InDelta(t, 12.50, withFee.FixedCost, 1e-9)
	assert.InDelta(t, base.Cost+12.50, withFee.Cost, 1e-9)
}

func TestGasFixedFeeNeedsHeatingLoad(t *testing.T) {
	ctx := context.Background()
	s := testSettings()
	s.System.PrimarySystem = types.SystemGasFurnace
	s.System.AFUE = 0.95
	s.GasFixedMonthly = 20

	e := testEngine(t, nil)
	jan := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.January, Mode: ModeHeating,
	})
	assert.InDelta(t, 20, jan.FixedCost, 1e-9)

	// fee still applies only to months with heating degree days
	cooling := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.July, Mode: ModeCooling,
	})
	assert.Zero(t, cooling.FixedCost)
}

func TestEstimateCache(t *testing.T) {
	ctx := context.Background()
	w := &fakeWeather{series: flatSeries(2025, time.January, 31, 10, 30)}
	e := testEngine(t, w)
	p := MonthParams{
		Settings: testSettings(), Year: 2025, Month: time.January, Mode: ModeHeating,
		Strategy: types.WeatherCurrent,
	}

	first := e.MonthlyEstimate(ctx, p)
	second := e.MonthlyEstimate(ctx, p)
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, first, second)
}

func TestEstimateCacheInvalidatedBySettingsChange(t *testing.T) {
	ctx := context.Background()
	w := &fakeWeather{series: flatSeries(2025, time.January, 31, 10, 30)}
	e := testEngine(t, w)
	p := MonthParams{
		Settings: testSettings(), Year: 2025, Month: time.January, Mode: ModeHeating,
		Strategy: types.WeatherCurrent,
	}

	small := e.MonthlyEstimate(ctx, p)

	// a bigger home is a different calculation, not a cache hit
	p.Settings.Building.SquareFeet = 3000
	big := e.MonthlyEstimate(ctx, p)
	assert.Equal(t, 2, w.calls)
	assert.Greater(t, big.Cost, small.Cost)

	// the original settings still hit their own entry
	p.Settings.Building.SquareFeet = 1500
	again := e.MonthlyEstimate(ctx, p)
	assert.Equal(t, 2, w.calls)
	assert.Equal(t, small, again)
}

func TestAnnualTotals(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	annual := e.AnnualEstimate(ctx, AnnualParams{Settings: testSettings(), Year: 2025})
	require.Len(t, annual.Months, 12)

	var cost, fixed, heating, cooling float64
	for _, m := range annual.Months {
		cost += m.Heating.Cost + m.Cooling.Cost
		fixed += m.Heating.FixedCost + m.Cooling.FixedCost
		heating += m.Heating.Cost
		cooling += m.Cooling.Cost
	}
	assert.InDelta(t, cost, annual.TotalCost, 1e-6)
	assert.InDelta(t, fixed, annual.TotalFixedCost, 1e-6)
	assert.InDelta(t, heating, annual.TotalHeatingCost, 1e-6)
	assert.InDelta(t, cooling, annual.TotalCoolingCost, 1e-6)

	// Minneapolis: winter dominated by heating, summer by cooling
	jan := annual.Months[0]
	jul := annual.Months[6]
	assert.Greater(t, jan.Heating.Cost, jan.Cooling.Cost)
	assert.Greater(t, jul.Cooling.Cost, jul.Heating.Cost)
}

func TestAnnualSyntheticSeriesForHeatPump(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	annual := e.AnnualEstimate(ctx, AnnualParams{Settings: testSettings(), Year: 2025})
	// known city + heat pump: heating months run the hourly model over a
	// synthesized series rather than the statistical path
	assert.Equal(t, types.MethodHourlyHeatPump, annual.Months[0].Heating.Method)

	s := testSettings()
	s.System.PrimarySystem = types.SystemGasFurnace
	s.System.AFUE = 0.9
	annual = e.AnnualEstimate(ctx, AnnualParams{Settings: s, Year: 2025})
	assert.Equal(t, types.MethodDegreeDays, annual.Months[0].Heating.Method)
}

func TestCompareLocations(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)
	s := testSettings()

	cmp := e.CompareLocations(ctx, s, 2025, time.January, ModeHeating,
		types.Location{City: "Minneapolis", State: "Minnesota", Lat: 44.98, Lon: -93.26},
		types.Location{City: "Miami", State: "Florida", Lat: 25.76, Lon: -80.19},
	)
	assert.Greater(t, cmp.A.Cost, cmp.B.Cost)
	assert.Less(t, cmp.Delta, 0.0)
	assert.InDelta(t, cmp.B.Cost-cmp.A.Cost, cmp.Delta, 1e-9)
}

func TestSetpointMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, setpointMultiplier(70, 70, 30), 1e-9)
	assert.Less(t, setpointMultiplier(65, 70, 30), 1.0)
	assert.Greater(t, setpointMultiplier(72, 70, 30), 1.0)
	// indoor at or below outdoor means no load
	assert.Zero(t, setpointMultiplier(30, 70, 40))
}

func TestAutoMode(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)
	s := testSettings()

	// swings below the heat setpoint at night and above the cool setpoint by
	// afternoon, so both loads show up
	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.April, Mode: ModeAuto,
		Series: flatSeries(2025, time.April, 30, 50, 90),
	})
	assert.Equal(t, types.MethodHourlyAuto, est.Method)
	assert.Greater(t, est.EnergyKWH, 0.0)
	assert.Greater(t, est.Cost, 0.0)
}

func TestAutoModeGasFurnaceBurnsGasForHeat(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)
	s := testSettings()
	s.System.PrimarySystem = types.SystemGasFurnace
	s.System.AFUE = 0.95

	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.April, Mode: ModeAuto,
		Series: flatSeries(2025, time.April, 30, 50, 90),
	})
	// heating hours burn gas, cooling hours stay electric
	assert.Greater(t, est.Therms, 0.0)
	assert.Greater(t, est.EnergyKWH, 0.0)
	assert.Zero(t, est.AuxEnergyKWH)
	assert.Nil(t, est.BalancePointF)
	variable := est.Cost - est.FixedCost
	assert.InDelta(t, est.EnergyKWH*0.15+est.Therms*1.20, variable, 1e-9)
}

func TestCoolingMonthZeroEfficiencyStaysFinite(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)
	s := testSettings()
	s.System.PrimarySystem = types.SystemGasFurnace
	s.System.AFUE = 0.95
	s.System.SEER2 = 0

	est := e.MonthlyEstimate(ctx, MonthParams{
		Settings: s, Year: 2025, Month: time.July, Mode: ModeCooling,
		Series: flatSeries(2025, time.July, 31, 75, 95),
	})
	assert.False(t, math.IsInf(est.Cost, 1))
	assert.False(t, math.IsInf(est.EnergyKWH, 1))
	assert.Zero(t, est.EnergyKWH)
}
