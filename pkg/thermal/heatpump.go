package thermal

import "math"

const (
	// BtuPerTonHour is the definition of an HVAC ton.
	BtuPerTonHour = 12000.0

	// BtuPerKWH converts resistance heat BTU to electrical kWh.
	BtuPerKWH = 3412.14

	// BtuPerTherm converts furnace output to therms of gas.
	BtuPerTherm = 100000.0
)

// HourlyCapacityFactor derates compressor thermal output as outdoor
// temperature drops. This is the 0F-centered linear derate used by the
// hour-by-hour performance path: full output near 0F distance, floored at 30%.
func HourlyCapacityFactor(outdoorF float64) float64 {
	return math.Max(0.3, 1-math.Abs(0-outdoorF)/100*0.5)
}

// RatedCapacityFactor derates compressor output below the 47F rating point.
// This is the simplified curve used by the degree-day monthly path: full
// output at or above 47F, losing 1% of rated output per degree below, floored
// at 30%.
func RatedCapacityFactor(outdoorF float64) float64 {
	if outdoorF >= 47 {
		return 1.0
	}
	return math.Max(0.3, 1-(47-outdoorF)*0.01)
}

// HeatPumpStep is the energy accounting for one heat pump time step. All
// energies are totals for the step, already scaled by its duration; callers
// accumulate them additively and must never multiply by the duration again.
type HeatPumpStep struct {
	BuildingHeatLossBtu    float64
	ThermalOutputBtu       float64
	CompressorDeliveredBtu float64
	AuxHeatBtu             float64

	CompressorKWH float64
	AuxKWH        float64
	// ExcludedAuxKWH is the aux energy that was zeroed out because electric
	// aux heat is disabled, reported separately for display.
	ExcludedAuxKWH float64
}

// HeatPumpInput describes one heat pump heating time step.
type HeatPumpInput struct {
	LossPerDegree  float64 // BTU/hr/degF
	IndoorF        float64
	OutdoorF       float64
	Tons           float64
	HSPF2          float64
	UseElectricAux bool

	// DtHours is the step duration. 1 for the hourly path, 24 for the
	// simplified constant-temperature daily path.
	DtHours float64

	// CapacityFactor computes the derate for the outdoor temperature. Nil
	// defaults to HourlyCapacityFactor.
	CapacityFactor func(outdoorF float64) float64
}

// HeatPumpHour splits delivered heat between the compressor and auxiliary
// resistance strips for one time step and computes the electrical energy for
// both.
func HeatPumpHour(in HeatPumpInput) HeatPumpStep {
	cf := in.CapacityFactor
	if cf == nil {
		cf = HourlyCapacityFactor
	}

	var step HeatPumpStep
	step.BuildingHeatLossBtu = in.LossPerDegree * math.Max(0, in.IndoorF-in.OutdoorF)
	step.ThermalOutputBtu = in.Tons * BtuPerTonHour * cf(in.OutdoorF)
	step.CompressorDeliveredBtu = math.Min(step.ThermalOutputBtu, step.BuildingHeatLossBtu)
	step.AuxHeatBtu = math.Max(0, step.BuildingHeatLossBtu-step.CompressorDeliveredBtu)

	// a zero efficiency reports the thermal split with no compressor energy
	if in.HSPF2 > 0 {
		step.CompressorKWH = step.CompressorDeliveredBtu / (in.HSPF2 * 1000) * in.DtHours
	}
	auxKWH := step.AuxHeatBtu / BtuPerKWH * in.DtHours
	if in.UseElectricAux {
		step.AuxKWH = auxKWH
	} else {
		step.ExcludedAuxKWH = auxKWH
	}
	return step
}
