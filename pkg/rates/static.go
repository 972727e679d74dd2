package rates

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/hearthcast/hearthcast/pkg/types"
	"gopkg.in/yaml.v3"
)

//go:embed state_rates.yaml
var stateRatesYAML []byte

type stateRateEntry struct {
	Electricity float64 `yaml:"electricity"` // $/kWh
	Gas         float64 `yaml:"gas"`         // $/therm
}

var stateRates = func() map[string]stateRateEntry {
	var table map[string]stateRateEntry
	if err := yaml.Unmarshal(stateRatesYAML, &table); err != nil {
		panic(fmt.Errorf("failed to parse state rate table: %w", err))
	}
	if _, ok := table["DEFAULT"]; !ok {
		panic("state rate table missing DEFAULT entry")
	}
	return table
}()

// StateTable serves static per-state average rates. It is keyed by full state
// name; unknown states fall through to the next source.
type StateTable struct{}

// NewStateTable returns the static state average source.
func NewStateTable() *StateTable {
	return &StateTable{}
}

// Name implements Source.
func (s *StateTable) Name() types.RateSource {
	return types.RateSourceStateAverage
}

// Rate implements Source.
func (s *StateTable) Rate(_ context.Context, fuel types.FuelKind, state string) (float64, time.Time, error) {
	entry, ok := stateRates[strings.ToLower(strings.TrimSpace(state))]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("no state average for %q", state)
	}
	return entry.rate(fuel), time.Time{}, nil
}

func (e stateRateEntry) rate(fuel types.FuelKind) float64 {
	if fuel == types.FuelGas {
		return e.Gas
	}
	return e.Electricity
}

// NationalDefault is the terminal source; it always returns the DEFAULT table
// entry.
type NationalDefault struct{}

// NewNationalDefault returns the terminal fallback source.
func NewNationalDefault() *NationalDefault {
	return &NationalDefault{}
}

// Name implements Source.
func (n *NationalDefault) Name() types.RateSource {
	return types.RateSourceNationalDefault
}

// Rate implements Source. It never fails.
func (n *NationalDefault) Rate(_ context.Context, fuel types.FuelKind, _ string) (float64, time.Time, error) {
	return nationalDefaultRate(fuel), time.Time{}, nil
}

func nationalDefaultRate(fuel types.FuelKind) float64 {
	return stateRates["DEFAULT"].rate(fuel)
}
