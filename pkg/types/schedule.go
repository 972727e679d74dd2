package types

import "time"

// MinDeadbandF is the minimum gap enforced between heat and cool setpoints to
// avoid short-cycling between modes.
const MinDeadbandF = 3.0

// Setpoints holds the heat/cool targets for one comfort mode.
type Setpoints struct {
	HeatF float64 `json:"heat"`
	CoolF float64 `json:"cool"`
}

// withDeadband bumps the cool setpoint up if it is too close to heat.
func (sp Setpoints) withDeadband() Setpoints {
	if sp.CoolF < sp.HeatF+MinDeadbandF {
		sp.CoolF = sp.HeatF + MinDeadbandF
	}
	return sp
}

// Schedule resolves thermostat setpoints for any hour of the week. Both the
// simple day/night split and the full home/away/sleep schedule implement it.
type Schedule interface {
	// SetpointsAt returns the deadband-enforced setpoints active at the given
	// hour of day and day of week.
	SetpointsAt(hour int, day time.Weekday) Setpoints
}

// ComfortMode identifies one entry of a ComfortSchedule.
type ComfortMode string

const (
	ModeHome  ComfortMode = "home"
	ModeAway  ComfortMode = "away"
	ModeSleep ComfortMode = "sleep"
)

// ComfortPeriod is one mode's setpoints plus the daily hour it starts.
type ComfortPeriod struct {
	Setpoints
	// StartHour is the hour of day [0,24) this mode becomes active.
	StartHour int `json:"startHour"`
}

// ComfortSchedule is the full home/away/sleep schedule used by the annual
// view. Each mode is active from its StartHour until the next mode's start,
// wrapping around midnight.
type ComfortSchedule struct {
	Home  ComfortPeriod `json:"home"`
	Away  ComfortPeriod `json:"away"`
	Sleep ComfortPeriod `json:"sleep"`
}

// SetpointsAt implements Schedule.
func (c ComfortSchedule) SetpointsAt(hour int, _ time.Weekday) Setpoints {
	mode := c.ModeAt(hour)
	return c.period(mode).Setpoints.withDeadband()
}

// ModeAt returns which comfort mode is active at the given hour. A mode is
// active from its StartHour until the next mode's start, wrapping around
// midnight.
func (c ComfortSchedule) ModeAt(hour int) ComfortMode {
	modes := []ComfortMode{ModeHome, ModeAway, ModeSleep}

	best := ComfortMode("")
	bestStart := -1
	latest := ComfortMode("")
	latestStart := -1
	for _, m := range modes {
		start := c.period(m).StartHour
		if start <= hour && start > bestStart {
			best = m
			bestStart = start
		}
		if start > latestStart {
			latest = m
			latestStart = start
		}
	}
	if best == "" {
		// before the earliest start, the last mode of the previous day is
		// still active
		return latest
	}
	return best
}

func (c ComfortSchedule) period(m ComfortMode) ComfortPeriod {
	switch m {
	case ModeAway:
		return c.Away
	case ModeSleep:
		return c.Sleep
	default:
		return c.Home
	}
}

// DayNightSchedule is the simple day/night split used by the heating-only
// monthly view. It is the 2-entry special case of the general schedule.
type DayNightSchedule struct {
	Day   Setpoints `json:"day"`
	Night Setpoints `json:"night"`

	// DayStartHour and NightStartHour bound the daytime window.
	DayStartHour   int `json:"dayStartHour"`
	NightStartHour int `json:"nightStartHour"`
}

// SetpointsAt implements Schedule.
func (d DayNightSchedule) SetpointsAt(hour int, _ time.Weekday) Setpoints {
	if hour >= d.DayStartHour && hour < d.NightStartHour {
		return d.Day.withDeadband()
	}
	return d.Night.withDeadband()
}
