package thermal

import "math"

// BalancePointSentinelF is returned when the compressor cannot match building
// heat loss even at mild temperatures, meaning aux heat is always required.
const BalancePointSentinelF = -25.0

// BalancePoint finds the outdoor temperature at which heat pump thermal
// output equals building heat loss, by linear scan from -20F to 50F in 0.5F
// steps. It returns the first temperature where output is within 5% of load.
// If the system cannot match load even at 40F it returns the sentinel -25
// ("always needs aux"). If no crossover exists in range the system handles
// all temperatures without aux and nil is returned.
func BalancePoint(lossPerDegree, indoorF, tons float64) *float64 {
	output := func(t float64) float64 {
		return tons * BtuPerTonHour * HourlyCapacityFactor(t)
	}
	load := func(t float64) float64 {
		return lossPerDegree * math.Max(0, indoorF-t)
	}

	for t := -20.0; t <= 50.0; t += 0.5 {
		l := load(t)
		if l <= 0 {
			continue
		}
		if math.Abs(output(t)-l) <= 0.05*l {
			bp := t
			return &bp
		}
	}

	if output(40) < load(40) {
		bp := BalancePointSentinelF
		return &bp
	}
	return nil
}
