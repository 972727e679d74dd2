// Package climate supplies degree-day climatology and daily weather series
// for the estimation engine. Degree-day lookups never fail: unknown locations
// fall back to documented national defaults.
package climate

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAnnualHDD and DefaultAnnualCDD are used when a location is not
	// in the normals table.
	DefaultAnnualHDD = 5000.0
	DefaultAnnualCDD = 1500.0

	// BaseTempF is the balance temperature that degree days are measured
	// against.
	BaseTempF = 65.0
)

// monthlyHDDDistribution apportions annual heating degree days across the
// calendar year. Only the shape matters: a month's share is its entry divided
// by the sum of all entries.
var monthlyHDDDistribution = [12]float64{
	1050, 870, 700, 380, 150, 30, 10, 15, 90, 350, 670, 980,
}

// monthlyCDDDistribution is the cooling analog, peaking in July.
var monthlyCDDDistribution = [12]float64{
	0, 0, 10, 40, 130, 250, 330, 310, 190, 60, 10, 0,
}

//go:embed normals.yaml
var normalsYAML []byte

type normalsEntry struct {
	HDD float64 `yaml:"hdd"`
	CDD float64 `yaml:"cdd"`
}

// DegreeDays provides annual and monthly HDD/CDD for named locations from an
// embedded table of climate normals.
type DegreeDays struct {
	normals map[string]normalsEntry
}

// NewDegreeDays parses the embedded normals table.
func NewDegreeDays() (*DegreeDays, error) {
	var normals map[string]normalsEntry
	if err := yaml.Unmarshal(normalsYAML, &normals); err != nil {
		return nil, fmt.Errorf("failed to parse climate normals: %w", err)
	}
	return &DegreeDays{normals: normals}, nil
}

func normalsKey(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + ", " + strings.ToLower(strings.TrimSpace(state))
}

// AnnualHDD returns the annual heating degree days for a city/state, or the
// national default when the location is unknown. It never fails.
func (d *DegreeDays) AnnualHDD(city, state string) float64 {
	if e, ok := d.normals[normalsKey(city, state)]; ok {
		return e.HDD
	}
	return DefaultAnnualHDD
}

// AnnualCDD returns the annual cooling degree days for a city/state, or the
// national default when the location is unknown. It never fails.
func (d *DegreeDays) AnnualCDD(city, state string) float64 {
	if e, ok := d.normals[normalsKey(city, state)]; ok {
		return e.CDD
	}
	return DefaultAnnualCDD
}

// Known reports whether the location is in the normals table. The engine uses
// this to decide between the degree-day path and the linear fallback.
func (d *DegreeDays) Known(city, state string) bool {
	_, ok := d.normals[normalsKey(city, state)]
	return ok
}

// MonthHDD apportions an annual HDD total to one month using the fixed
// distribution shape. Summing all 12 months reproduces the annual total.
func MonthHDD(annualHDD float64, month time.Month) float64 {
	return monthlyHDDDistribution[month-1] / sumDistribution(monthlyHDDDistribution) * annualHDD
}

// MonthCDD apportions an annual CDD total to one month.
func MonthCDD(annualCDD float64, month time.Month) float64 {
	return monthlyCDDDistribution[month-1] / sumDistribution(monthlyCDDDistribution) * annualCDD
}

func sumDistribution(dist [12]float64) float64 {
	var sum float64
	for _, v := range dist {
		sum += v
	}
	return sum
}
