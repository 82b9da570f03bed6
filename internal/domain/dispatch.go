package domain

import (
	"drone-dispatch-service/internal/geo"
	"fmt"
	"time"
)

// Requirements constrains which drones may serve a dispatch. A nil field
// means unconstrained.
type Requirements struct {
	Capacity *float64 `json:"capacity,omitempty"`
	Cooling  *bool    `json:"cooling,omitempty"`
	Heating  *bool    `json:"heating,omitempty"`
	MaxCost  *float64 `json:"maxCost,omitempty"`
}

// DispatchRequest asks for a delivery to a specific position, optionally at
// a specific date and time. Empty Date/Time means the dispatch is exempt
// from availability checks.
type DispatchRequest struct {
	ID           string       `json:"id"`
	Delivery     geo.Position `json:"delivery"`
	Date         string       `json:"date,omitempty"` // "2006-01-02"
	Time         string       `json:"time,omitempty"` // "15:04"
	Requirements Requirements `json:"requirements"`
}

// TimeQualified reports whether the dispatch carries a date and time and so
// is subject to availability windows.
func (d *DispatchRequest) TimeQualified() bool {
	return d.Date != "" && d.Time != ""
}

// When resolves the dispatch's day of week and clock time.
func (d *DispatchRequest) When() (time.Weekday, ClockTime, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return 0, 0, fmt.Errorf("dispatch %s: parse date %q: %w", d.ID, d.Date, err)
	}

	at, err := ParseClockTime(d.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("dispatch %s: %w", d.ID, err)
	}

	return date.Weekday(), at, nil
}
