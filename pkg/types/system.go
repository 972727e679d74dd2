package types

// SystemKind identifies the primary heating system.
type SystemKind string

const (
	SystemHeatPump   SystemKind = "heatPump"
	SystemGasFurnace SystemKind = "gasFurnace"
)

// capacityTons maps nominal capacity in kBTU to compressor tonnage.
var capacityTons = map[int]float64{
	18: 1.5,
	24: 2.0,
	30: 2.5,
	36: 3.0,
	42: 3.5,
	48: 4.0,
	60: 5.0,
}

// DefaultTons is used when the nominal capacity is not in the lookup table.
const DefaultTons = 3.0

// SystemSpec describes the installed HVAC equipment.
type SystemSpec struct {
	PrimarySystem SystemKind `json:"primarySystem"`

	// CapacityKBTU is the nominal capacity (e.g. 36 for a 3-ton unit).
	CapacityKBTU int `json:"capacity"`

	// SEER2 is the rated cooling efficiency.
	SEER2 float64 `json:"efficiency"`

	// HSPF2 is the rated heating efficiency. If zero, SEER2 is used instead.
	HSPF2 float64 `json:"hspf2,omitempty"`

	// AFUE is the gas furnace efficiency fraction.
	AFUE float64 `json:"afue,omitempty"`

	// UseElectricAuxHeat controls whether auxiliary resistance heat counts
	// toward cost. When false, aux energy is still tracked separately as
	// excluded energy for display.
	UseElectricAuxHeat bool `json:"useElectricAuxHeat"`
}

// Tons returns the compressor tonnage for the nominal capacity.
func (s SystemSpec) Tons() float64 {
	if t, ok := capacityTons[s.CapacityKBTU]; ok {
		return t
	}
	return DefaultTons
}

// HeatingEfficiency returns HSPF2, falling back to SEER2 when unset.
func (s SystemSpec) HeatingEfficiency() float64 {
	if s.HSPF2 > 0 {
		return s.HSPF2
	}
	return s.SEER2
}

// EffectiveAFUE returns the furnace efficiency clamped to a plausible range.
func (s SystemSpec) EffectiveAFUE() float64 {
	afue := s.AFUE
	if afue < 0.60 {
		afue = 0.60
	}
	if afue > 0.99 {
		afue = 0.99
	}
	return afue
}
