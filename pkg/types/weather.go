package types

import "time"

// WeatherStrategy selects which weather data feeds a calculation. The
// strategies are mutually exclusive per calculation.
type WeatherStrategy string

const (
	// WeatherTypical uses the climatological HDD/CDD distribution. No API
	// call is required.
	WeatherTypical WeatherStrategy = "typical"

	// WeatherCurrent uses a forecast or historical daily series directly.
	WeatherCurrent WeatherStrategy = "current"

	// WeatherPolarVortex is WeatherCurrent with a uniform -5F offset applied
	// to every high/low/avg before synthesis. Stress scenario.
	WeatherPolarVortex WeatherStrategy = "polarVortex"
)

// PolarVortexOffsetF is the uniform offset applied by WeatherPolarVortex.
const PolarVortexOffsetF = -5.0

// DailyTemp is one day of weather data in degrees Fahrenheit.
type DailyTemp struct {
	Date  time.Time `json:"date"`
	LowF  float64   `json:"low"`
	HighF float64   `json:"high"`
	AvgF  float64   `json:"avg"`
}

// WeatherSeries is a sequence of daily records from a forecast/archive API or
// synthesized from degree-day climatology.
type WeatherSeries []DailyTemp

// Offset returns a copy with delta added to every low/high/avg.
func (s WeatherSeries) Offset(delta float64) WeatherSeries {
	out := make(WeatherSeries, len(s))
	for i, d := range s {
		d.LowF += delta
		d.HighF += delta
		d.AvgF += delta
		out[i] = d
	}
	return out
}

// Location identifies where the home is, with optional elevation data for the
// lapse-rate correction.
type Location struct {
	City  string  `json:"city"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`

	// HomeElevationFt and StationElevationFt drive the lapse-rate correction
	// applied to station temperatures. Both zero means no correction.
	HomeElevationFt    float64 `json:"homeElevationFt,omitempty"`
	StationElevationFt float64 `json:"stationElevationFt,omitempty"`
}

// LapseRateFPerKFt is the temperature correction per 1000 ft of elevation
// difference between the home and the reporting station.
const LapseRateFPerKFt = -3.5

// ElevationCorrectionF returns the delta to add to station temperatures.
func (l Location) ElevationCorrectionF() float64 {
	return (l.HomeElevationFt - l.StationElevationFt) * LapseRateFPerKFt / 1000.0
}
