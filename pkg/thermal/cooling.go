package thermal

import "math"

// coolingRatingF is the outdoor temperature SEER2 ratings are taken at.
const coolingRatingF = 95.0

// CoolingEfficiencyMultiplier adjusts rated SEER2 for outdoor temperature.
// Efficiency improves below the 95F rating point and degrades above it,
// clamped so the effective SEER2 stays within half to 1.5x of rated.
func CoolingEfficiencyMultiplier(outdoorF float64) float64 {
	m := 1 - (outdoorF-coolingRatingF)*0.015
	if m < 0.5 {
		m = 0.5
	}
	if m > 1.5 {
		m = 1.5
	}
	return m
}

// CoolingCapacityFactor derates compressor cooling output above the 95F
// rating point, floored at 75%.
func CoolingCapacityFactor(outdoorF float64) float64 {
	if outdoorF <= coolingRatingF {
		return 1.0
	}
	return math.Max(0.75, 1-(outdoorF-coolingRatingF)*0.01)
}

// LatentLoadMultiplier is a small uplift for the dehumidification portion of
// the cooling load.
func LatentLoadMultiplier(humidityPct float64) float64 {
	return 1 + humidityPct/100*0.05
}

// CoolingDay is the energy accounting for one day of cooling.
type CoolingDay struct {
	SensibleBtu float64
	TotalBtu    float64
	// CappedBtu is TotalBtu limited to what the compressor can actually move
	// in 24 hours.
	CappedBtu float64
	KWH       float64
	// UnmetHours is a rough count of hours the system could not keep up.
	UnmetHours int
}

// CoolingDayInput describes one day of the cooling path.
type CoolingDayInput struct {
	GainPerDegree float64 // BTU/hr/degF
	IndoorF       float64
	DayAvgF       float64
	Tons          float64
	SEER2         float64
	HumidityPct   float64
}

// CoolingDayEnergy computes the daily cooling energy. Days where the average
// temperature is at or below the setpoint produce a zero struct.
func CoolingDayEnergy(in CoolingDayInput) CoolingDay {
	tempDiff := in.DayAvgF - in.IndoorF
	if tempDiff <= 0 {
		return CoolingDay{}
	}

	var day CoolingDay
	day.SensibleBtu = in.GainPerDegree * tempDiff * 24
	day.TotalBtu = day.SensibleBtu * LatentLoadMultiplier(in.HumidityPct)

	// cap demand at what the derated compressor can move in a full day
	dailyCapacity := in.Tons * BtuPerTonHour * CoolingCapacityFactor(in.DayAvgF) * 24
	day.CappedBtu = day.TotalBtu
	if day.CappedBtu > dailyCapacity {
		day.CappedBtu = dailyCapacity
		// estimate how many hours of demand went unmet
		excess := day.TotalBtu - dailyCapacity
		hourlyCapacity := dailyCapacity / 24
		day.UnmetHours = int(math.Ceil(excess / hourlyCapacity))
		if day.UnmetHours > 24 {
			day.UnmetHours = 24
		}
	}

	// a zero efficiency reports the thermal demand with no electrical energy
	effSEER2 := in.SEER2 * CoolingEfficiencyMultiplier(in.DayAvgF)
	if effSEER2 > 0 {
		day.KWH = day.CappedBtu / (effSEER2 * 1000)
	}
	return day
}
