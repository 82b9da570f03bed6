package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Capability describes what a drone can carry and what flying it costs.
// MaxMoves bounds the estimated round trip of a route at assignment time;
// the cost fields feed both admission checks and realized route cost.
type Capability struct {
	Cooling     bool    `json:"cooling"`
	Heating     bool    `json:"heating"`
	Capacity    float64 `json:"capacity"`
	MaxMoves    int     `json:"maxMoves"`
	CostInitial float64 `json:"costInitial"`
	CostPerMove float64 `json:"costPerMove"`
	CostFinal   float64 `json:"costFinal"`
}

// ClockTime is a time of day in minutes from midnight, serialized as "HH:MM".
type ClockTime int

// ParseClockTime parses "HH:MM" into minutes from midnight.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AvailabilityWindow is one (day-of-week, from, until) slot during which a
// drone may be dispatched. Bounds are inclusive.
type AvailabilityWindow struct {
	Day   time.Weekday
	From  ClockTime
	Until ClockTime
}

// Covers reports whether the window includes the given day and time.
func (w AvailabilityWindow) Covers(day time.Weekday, at ClockTime) bool {
	return w.Day == day && at >= w.From && at <= w.Until
}

// availabilityWire matches the upstream catalog representation, which names
// days in uppercase ("MONDAY").
type availabilityWire struct {
	DayOfWeek string `json:"dayOfWeek"`
	From      string `json:"from"`
	Until     string `json:"until"`
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

func (w *AvailabilityWindow) UnmarshalJSON(b []byte) error {
	var wire availabilityWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(wire.DayOfWeek))]
	if !ok {
		return fmt.Errorf("availability window: unknown day %q", wire.DayOfWeek)
	}

	from, err := ParseClockTime(wire.From)
	if err != nil {
		return fmt.Errorf("availability window: %w", err)
	}
	until, err := ParseClockTime(wire.Until)
	if err != nil {
		return fmt.Errorf("availability window: %w", err)
	}

	w.Day = day
	w.From = from
	w.Until = until
	return nil
}

func (w AvailabilityWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal(availabilityWire{
		DayOfWeek: strings.ToUpper(w.Day.String()),
		From:      w.From.String(),
		Until:     w.Until.String(),
	})
}

// Drone is read-only reference data for a planning pass. Availability is
// merged in from the per-service-point associations when a snapshot is
// loaded; a drone with no windows is never available for time-qualified
// dispatches.
type Drone struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Capability   Capability           `json:"capability"`
	Availability []AvailabilityWindow `json:"availability,omitempty"`
}

// AvailableAt reports whether any window covers the given day and time.
func (d *Drone) AvailableAt(day time.Weekday, at ClockTime) bool {
	for _, w := range d.Availability {
		if w.Covers(day, at) {
			return true
		}
	}
	return false
}
