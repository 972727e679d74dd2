package types

// BuildingSpec describes the envelope characteristics used by the load model.
// It is immutable per calculation; all multipliers are relative to a
// code-built baseline of 1.0.
type BuildingSpec struct {
	SquareFeet float64 `json:"squareFeet"`

	// InsulationLevel is a heat-loss multiplier. 1.0 is baseline code-built,
	// above 1.0 is worse insulation, below 1.0 is better.
	InsulationLevel float64 `json:"insulationLevel"`

	// HomeShape is a compactness multiplier. Sprawling single-story layouts
	// have more exterior surface per square foot than compact two-story ones.
	HomeShape float64 `json:"homeShape"`

	// CeilingHeightFt is the average ceiling height in feet. Baseline is 8.
	CeilingHeightFt float64 `json:"ceilingHeight"`

	// SolarExposure is a cooling-only gain multiplier for window area and
	// orientation.
	SolarExposure float64 `json:"solarExposure"`
}

// CeilingMultiplier converts ceiling height into a volume multiplier relative
// to the 8 foot baseline. It may be below 1 for low ceilings.
func (b BuildingSpec) CeilingMultiplier() float64 {
	return 1 + (b.CeilingHeightFt-8)*0.1
}
