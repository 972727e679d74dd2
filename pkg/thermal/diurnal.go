package thermal

import "math"

// HourlyTemp expands a daily low/high into the temperature at hour h using a
// fixed sinusoidal diurnal shape: minimum at hour 6, maximum twelve hours
// later. Deterministic and restartable; the average of all 24 hours equals
// (low+high)/2.
func HourlyTemp(lowF, highF float64, hour int) float64 {
	avg := (lowF + highF) / 2
	rng := highF - lowF
	phase := (float64(hour-6) / 12) * math.Pi
	offset := math.Cos(phase-math.Pi) * rng / 2
	return avg + offset
}

// HourlyTemps synthesizes the full 24-hour series for one day.
func HourlyTemps(lowF, highF float64) [24]float64 {
	var temps [24]float64
	for h := range temps {
		temps[h] = HourlyTemp(lowF, highF, h)
	}
	return temps
}
