package types

import "time"

// RateSource records which strategy in the fallback chain produced a quote.
type RateSource string

const (
	RateSourceLive            RateSource = "live"
	RateSourceStateAverage    RateSource = "stateAverage"
	RateSourceNationalDefault RateSource = "nationalDefault"
)

// FuelKind selects which rate a quote is for.
type FuelKind string

const (
	FuelElectricity FuelKind = "electricity" // $/kWh
	FuelGas         FuelKind = "gas"         // $/therm
)

// RateQuote is a resolved energy rate. A live quote is preferred and carries
// the fetch timestamp; fallbacks have a zero Timestamp.
type RateQuote struct {
	Fuel      FuelKind   `json:"fuel"`
	Rate      float64    `json:"rate"`
	Source    RateSource `json:"source"`
	Timestamp time.Time  `json:"timestamp,omitzero"`
}
