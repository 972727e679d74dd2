package types

import "time"

// EstimateMethod records which calculation path produced a CostEstimate.
type EstimateMethod string

const (
	MethodHourlyHeatPump EstimateMethod = "hourlyHeatPump"
	// MethodHourlyAuto is the schedule-driven path that mixes heating and
	// cooling hours in one month.
	MethodHourlyAuto EstimateMethod = "hourlyAuto"
	MethodDailyGas       EstimateMethod = "dailyGas"
	MethodDailyCooling   EstimateMethod = "dailyCooling"
	MethodDegreeDays     EstimateMethod = "degreeDays"
	MethodLinearFallback EstimateMethod = "linearFallback"
)

// CostEstimate is the output of a single monthly calculation. Cost always
// includes FixedCost; FixedCost is also reported separately so the UI can
// decompose the total.
type CostEstimate struct {
	Cost      float64 `json:"cost"`
	FixedCost float64 `json:"fixedCost"`

	// EnergyKWH is set for electric paths, Therms for gas heating.
	EnergyKWH float64 `json:"energy,omitempty"`
	Therms    float64 `json:"therms,omitempty"`

	Days          int     `json:"days"`
	AvgDailyTempF float64 `json:"avgDailyTemp"`

	Method EstimateMethod `json:"method"`

	// Rate actually used, for display.
	ElectricityRate float64 `json:"electricityRate,omitempty"`
	GasRate         float64 `json:"gasCost,omitempty"`

	// Heat pump specific fields.
	AuxEnergyKWH float64 `json:"auxEnergy,omitempty"`
	// ExcludedAuxEnergyKWH is aux energy that would have been needed but was
	// excluded from cost because electric aux heat is disabled.
	ExcludedAuxEnergyKWH float64 `json:"excludedAuxEnergy,omitempty"`
	// BalancePointF is set when the balance-point solver found a crossover.
	BalancePointF *float64 `json:"balancePoint,omitempty"`

	// Cooling specific fields.
	// UnmetHours counts hours where demand exceeded system capacity.
	UnmetHours int `json:"unmetHours,omitempty"`

	// Degree days consumed by the degree-day path.
	HDD float64 `json:"hdd,omitempty"`
	CDD float64 `json:"cdd,omitempty"`
}

// SavedEstimate is one persisted estimate run, kept so the history view can
// show how projections moved as settings and rates changed.
type SavedEstimate struct {
	Timestamp time.Time `json:"timestamp"`

	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Mode     string          `json:"mode"`
	Strategy WeatherStrategy `json:"strategy"`
	Location Location        `json:"location"`

	Estimate CostEstimate `json:"estimate"`
}

// MonthEstimate pairs heating and cooling results for one calendar month.
type MonthEstimate struct {
	Month   time.Month   `json:"month"`
	Heating CostEstimate `json:"heating"`
	Cooling CostEstimate `json:"cooling"`
}

// AnnualEstimate is the 12-month projection with totals.
type AnnualEstimate struct {
	Months []MonthEstimate `json:"months"`

	TotalCost        float64 `json:"totalCost"`
	TotalFixedCost   float64 `json:"totalFixedCost"`
	TotalHeatingCost float64 `json:"totalHeatingCost"`
	TotalCoolingCost float64 `json:"totalCoolingCost"`
	TotalEnergyKWH   float64 `json:"totalEnergy"`
	TotalTherms      float64 `json:"totalTherms,omitempty"`
}
