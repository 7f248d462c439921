// Package sun resolves sun-event timestamps and instantaneous sun position
// for a location. Events that do not occur on a given day (polar day and
// polar night) are absent, not errors: every field of Times is optional and
// consumers branch on presence.
package sun

import (
	"time"

	"github.com/sixdouglas/suncalc"
)

// Event names used when tagging schedule points
const (
	EventSunrise   = "sunrise"
	EventSunset    = "sunset"
	EventSolarNoon = "solarNoon"
	EventDawn      = "dawn"
	EventDusk      = "dusk"
	EventNadir     = "nadir"
	EventNightEnd  = "nightEnd"
	EventNight     = "night"
)

// Times holds the named sun-event timestamps for one day. A nil field
// means the event does not occur at that latitude and date.
type Times struct {
	Sunrise   *time.Time `json:"sunrise,omitempty"`
	Sunset    *time.Time `json:"sunset,omitempty"`
	SolarNoon *time.Time `json:"solarNoon,omitempty"`
	Dawn      *time.Time `json:"dawn,omitempty"`
	Dusk      *time.Time `json:"dusk,omitempty"`
	Nadir     *time.Time `json:"nadir,omitempty"`
	NightEnd  *time.Time `json:"nightEnd,omitempty"`
	Night     *time.Time `json:"night,omitempty"`
}

// Event is a named, defined sun-event timestamp
type Event struct {
	Name string
	Time time.Time
}

// Events returns the defined events in a fixed chronological-name order
func (t Times) Events() []Event {
	fields := []struct {
		name string
		ts   *time.Time
	}{
		{EventNightEnd, t.NightEnd},
		{EventDawn, t.Dawn},
		{EventSunrise, t.Sunrise},
		{EventSolarNoon, t.SolarNoon},
		{EventSunset, t.Sunset},
		{EventDusk, t.Dusk},
		{EventNight, t.Night},
		{EventNadir, t.Nadir},
	}
	events := make([]Event, 0, len(fields))
	for _, f := range fields {
		if f.ts != nil {
			events = append(events, Event{Name: f.name, Time: *f.ts})
		}
	}
	return events
}

// Position is the instantaneous sun position, angles in radians
type Position struct {
	Altitude float64
	Azimuth  float64
}

// Provider supplies sun times and position for a location
type Provider interface {
	Times(t time.Time, lat, lon float64) Times
	Position(t time.Time, lat, lon float64) Position
}

// Calculator implements Provider using the suncalc library
type Calculator struct{}

// NewCalculator returns a suncalc-backed provider
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Times returns the sun-event timestamps for the day containing t
func (c *Calculator) Times(t time.Time, lat, lon float64) Times {
	raw := suncalc.GetTimes(t, lat, lon)
	return Times{
		Sunrise:   eventTime(raw, suncalc.Sunrise, t),
		Sunset:    eventTime(raw, suncalc.Sunset, t),
		SolarNoon: eventTime(raw, suncalc.SolarNoon, t),
		Dawn:      eventTime(raw, suncalc.Dawn, t),
		Dusk:      eventTime(raw, suncalc.Dusk, t),
		Nadir:     eventTime(raw, suncalc.Nadir, t),
		NightEnd:  eventTime(raw, suncalc.NightEnd, t),
		Night:     eventTime(raw, suncalc.Night, t),
	}
}

// Position returns the sun position at t
func (c *Calculator) Position(t time.Time, lat, lon float64) Position {
	pos := suncalc.GetPosition(t, lat, lon)
	return Position{
		Altitude: pos.Altitude,
		Azimuth:  pos.Azimuth,
	}
}

// maxEventSkew bounds how far a reported event may sit from the query
// date before it is treated as absent. At polar latitudes the underlying
// hour-angle arccos leaves its domain and the library emits garbage
// timestamps instead of omitting the event.
const maxEventSkew = 48 * time.Hour

func eventTime(raw map[suncalc.DayTimeName]suncalc.DayTime, name suncalc.DayTimeName, ref time.Time) *time.Time {
	dt, ok := raw[name]
	if !ok {
		return nil
	}
	v := dt.Value
	if v.IsZero() {
		return nil
	}
	if d := v.Sub(ref); d < -maxEventSkew || d > maxEventSkew {
		return nil
	}
	return &v
}
