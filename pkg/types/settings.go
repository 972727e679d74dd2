package types

import (
	"fmt"
)

// CurrentSettingsVersion is the current version of the settings struct.
// Increment this value when adding new fields that require default values.
const CurrentSettingsVersion = 3

// Settings represents the per-site configuration stored in the database.
// These are dynamic settings that can be changed without redeploying.
type Settings struct {
	Building BuildingSpec `json:"building"`
	System   SystemSpec   `json:"system"`

	// Two schedule representations exist: the heating-only monthly view uses
	// the simple day/night split, the annual view uses the full
	// home/away/sleep schedule. UseComfortSchedule selects which one applies.
	DayNight           DayNightSchedule `json:"dayNight"`
	Comfort            ComfortSchedule  `json:"comfort"`
	UseComfortSchedule bool             `json:"useComfortSchedule"`

	Location Location `json:"location"`

	// WeatherStrategy is the default strategy when a request does not name
	// one.
	WeatherStrategy WeatherStrategy `json:"weatherStrategy"`

	// Fixed monthly service charges, attributed per the fuel-dominance rule.
	ElectricFixedMonthly float64 `json:"electricFixedMonthly"`
	GasFixedMonthly      float64 `json:"gasFixedMonthly"`

	// AnalyzerHeatLossBtuPerDegF is an externally measured heat-loss rate
	// derived from thermostat runtime logs. When > 0 it overrides the
	// calculated building load per degree.
	AnalyzerHeatLossBtuPerDegF float64 `json:"analyzerHeatLoss,omitempty"`

	// HumidityPct feeds the cooling latent-load uplift.
	HumidityPct float64 `json:"humidityPct"`
}

// Schedule returns the active schedule representation.
func (s Settings) Schedule() Schedule {
	if s.UseComfortSchedule {
		return s.Comfort
	}
	return s.DayNight
}

// MigrateSettings migrates the settings to the current version.
// It returns the migrated settings, a boolean indicating if changes were made,
// and an error if migration failed.
func MigrateSettings(s Settings, currentVersion int) (Settings, bool, error) {
	if currentVersion >= CurrentSettingsVersion {
		return s, false, nil
	}

	migrated := false
	// Loop through versions to apply migrations sequentially
	for version := currentVersion + 1; version <= CurrentSettingsVersion; version++ {
		switch version {
		case 1:
			// version 1: initial building/system defaults
			if s.Building.InsulationLevel == 0 {
				s.Building.InsulationLevel = 1.0
				migrated = true
			}
			if s.Building.HomeShape == 0 {
				s.Building.HomeShape = 1.0
				migrated = true
			}
			if s.Building.CeilingHeightFt == 0 {
				s.Building.CeilingHeightFt = 8
				migrated = true
			}
			if s.Building.SolarExposure == 0 {
				s.Building.SolarExposure = 1.0
				migrated = true
			}
			if s.System.PrimarySystem == "" {
				s.System.PrimarySystem = SystemHeatPump
				migrated = true
			}
		case 2:
			// version 2: add schedules
			if s.DayNight == (DayNightSchedule{}) {
				s.DayNight = DayNightSchedule{
					Day:            Setpoints{HeatF: 70, CoolF: 76},
					Night:          Setpoints{HeatF: 66, CoolF: 74},
					DayStartHour:   6,
					NightStartHour: 22,
				}
				migrated = true
			}
			if s.Comfort == (ComfortSchedule{}) {
				s.Comfort = ComfortSchedule{
					Home:  ComfortPeriod{Setpoints: Setpoints{HeatF: 70, CoolF: 76}, StartHour: 17},
					Away:  ComfortPeriod{Setpoints: Setpoints{HeatF: 64, CoolF: 80}, StartHour: 9},
					Sleep: ComfortPeriod{Setpoints: Setpoints{HeatF: 66, CoolF: 74}, StartHour: 22},
				}
				migrated = true
			}
		case 3:
			// version 3: add weather strategy and humidity defaults
			if s.WeatherStrategy == "" {
				s.WeatherStrategy = WeatherTypical
				migrated = true
			}
			if s.HumidityPct == 0 {
				s.HumidityPct = 50
				migrated = true
			}
		default:
			return s, false, fmt.Errorf("unknown settings version: %d", version)
		}
	}

	return s, migrated, nil
}
