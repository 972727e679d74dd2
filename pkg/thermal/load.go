// Package thermal implements the building load and heat-pump performance
// models. Everything here is a pure function of its inputs; callers are
// responsible for validating that geometry and multipliers are positive.
package thermal

import "github.com/hearthcast/hearthcast/pkg/types"

const (
	// heatLossBtuPerSqFt is the empirical design heat loss per square foot at
	// the 70F indoor/outdoor delta design point (0F outdoor against 70F
	// indoor) for a baseline code-built home.
	heatLossBtuPerSqFt = 22.67

	// heatGainBtuPerSqFt is the cooling analog at the 20F delta design point.
	heatGainBtuPerSqFt = 28.0

	// DesignHeatingDeltaF and DesignCoolingDeltaF are the deltas implied by
	// the constants above.
	DesignHeatingDeltaF = 70.0
	DesignCoolingDeltaF = 20.0
)

// DesignHeatLoss returns the winter design-condition heat loss in BTU/hr.
func DesignHeatLoss(b types.BuildingSpec) float64 {
	return b.SquareFeet * heatLossBtuPerSqFt * b.InsulationLevel * b.HomeShape * b.CeilingMultiplier()
}

// LossPerDegree returns building heat loss in BTU/hr per degF of
// indoor/outdoor difference. analyzerOverride is an externally measured
// per-degree figure (from thermostat runtime logs) that takes precedence when
// positive.
func LossPerDegree(b types.BuildingSpec, analyzerOverride float64) float64 {
	if analyzerOverride > 0 {
		return analyzerOverride
	}
	return DesignHeatLoss(b) / DesignHeatingDeltaF
}

// DesignHeatGain returns the summer design-condition heat gain in BTU/hr.
func DesignHeatGain(b types.BuildingSpec) float64 {
	return b.SquareFeet * heatGainBtuPerSqFt * b.InsulationLevel * b.HomeShape * b.CeilingMultiplier() * b.SolarExposure
}

// GainPerDegree returns building heat gain in BTU/hr per degF above the
// indoor setpoint.
func GainPerDegree(b types.BuildingSpec) float64 {
	return DesignHeatGain(b) / DesignCoolingDeltaF
}
