// Package schedule assembles per-interval daylight targets into a
// full-day schedule merged with named astronomical events. Building a
// schedule is a one-shot batch transform; downstream renderers and
// exporters consume the Schedule structure only.
package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aleksivirta/daylight-platform/internal/curve"
	"github.com/aleksivirta/daylight-platform/internal/engine"
	"github.com/aleksivirta/daylight-platform/internal/sun"
	"github.com/aleksivirta/daylight-platform/internal/weather"
)

// eventTagWindow is how close a point must sit to a sun event to carry
// that event's name
const eventTagWindow = 30 * time.Second

// maxEvalWorkers bounds the per-schedule evaluation pool
const maxEvalWorkers = 8

// Request describes one schedule to build
type Request struct {
	Latitude        float64
	Longitude       float64
	Date            time.Time
	Bounds          engine.Bounds
	Curves          []curve.Type
	IntervalMinutes int
	BufferMinutes   int
	IncludeEvents   bool
	Weather         *weather.State
	LocationSource  string
}

// Point is one evaluated schedule timestamp. Event is set when the point
// coincides with a named sun event. Values holds one result per
// requested curve.
type Point struct {
	Timestamp time.Time                    `json:"timestamp"`
	Event     string                       `json:"event,omitempty"`
	Values    map[curve.Type]engine.Result `json:"values"`
}

// Schedule is a full day of evaluated daylight targets. Points are
// strictly increasing in timestamp with no duplicates.
type Schedule struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	LocationSource string       `json:"location_source"`
	Sun            sun.Times    `json:"sun"`
	Curves         []curve.Type `json:"curves"`
	Points         []Point      `json:"points"`
}

// Builder builds schedules using the CCT engine and a sun provider
type Builder struct {
	engine *engine.Engine
	sun    sun.Provider
}

// NewBuilder creates a schedule builder
func NewBuilder(eng *engine.Engine, provider sun.Provider) *Builder {
	return &Builder{engine: eng, sun: provider}
}

// Build evaluates every requested curve at every timestamp of the day
// window: a regular grid at the requested interval, merged with the named
// sun events when requested, sorted and deduplicated.
func (b *Builder) Build(req Request) (*Schedule, error) {
	if len(req.Curves) == 0 {
		return nil, fmt.Errorf("at least one curve is required")
	}
	for _, c := range req.Curves {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid curve %q", string(c))
		}
	}
	if req.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", req.IntervalMinutes)
	}

	times := b.sun.Times(req.Date, req.Latitude, req.Longitude)
	events := times.Events()
	start, end := dayWindow(req.Date, events, time.Duration(req.BufferMinutes)*time.Minute)

	points := collectPoints(start, end, time.Duration(req.IntervalMinutes)*time.Minute, events, req.IncludeEvents)

	sched := &Schedule{
		ID:             uuid.New().String(),
		Date:           req.Date.Format("2006-01-02"),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LocationSource: req.LocationSource,
		Sun:            times,
		Curves:         req.Curves,
		Points:         points,
	}

	b.evaluate(sched, req)
	return sched, nil
}

// dayWindow spans from the earliest relevant sun event minus the buffer to
// the latest plus the buffer, falling back to the full calendar day when
// no sun events are available.
func dayWindow(date time.Time, events []sun.Event, buffer time.Duration) (time.Time, time.Time) {
	if len(events) == 0 {
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		return start, start.AddDate(0, 0, 1)
	}

	earliest, latest := events[0].Time, events[0].Time
	for _, ev := range events[1:] {
		if ev.Time.Before(earliest) {
			earliest = ev.Time
		}
		if ev.Time.After(latest) {
			latest = ev.Time
		}
	}
	return earliest.Add(-buffer), latest.Add(buffer)
}

// collectPoints generates the regular grid, merges in sun events inside the
// window, sorts, deduplicates exact timestamps and tags points that sit
// within the tag window of an event.
func collectPoints(start, end time.Time, interval time.Duration, events []sun.Event, includeEvents bool) []Point {
	var points []Point
	for t := start; !t.After(end); t = t.Add(interval) {
		points = append(points, Point{Timestamp: t})
	}

	if includeEvents {
		for _, ev := range events {
			if ev.Time.Before(start) || ev.Time.After(end) {
				continue
			}
			points = append(points, Point{Timestamp: ev.Time, Event: ev.Name})
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })

	// Deduplicate exact timestamp collisions, preferring the named point
	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Timestamp.Equal(p.Timestamp) {
			if deduped[n-1].Event == "" {
				deduped[n-1].Event = p.Event
			}
			continue
		}
		deduped = append(deduped, p)
	}

	// Grid points that nearly coincide with a sun event carry its name
	if includeEvents {
		for i := range deduped {
			if deduped[i].Event != "" {
				continue
			}
			for _, ev := range events {
				d := deduped[i].Timestamp.Sub(ev.Time)
				if d < 0 {
					d = -d
				}
				if d <= eventTagWindow {
					deduped[i].Event = ev.Name
					break
				}
			}
		}
	}

	return deduped
}

// evaluate fills in the per-curve results for every point. Evaluations are
// pure functions of their inputs with no ordering dependency, so they run
// on a bounded worker pool; each worker writes only its own point index,
// which keeps the final sequence in timestamp order without re-sorting.
func (b *Builder) evaluate(sched *Schedule, req Request) {
	indexes := make(chan int)
	workers := maxEvalWorkers
	if len(sched.Points) < workers {
		workers = len(sched.Points)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				values := make(map[curve.Type]engine.Result, len(req.Curves))
				for _, c := range req.Curves {
					values[c] = b.engine.Compute(req.Latitude, req.Longitude,
						sched.Points[i].Timestamp, req.Bounds, c, req.Weather)
				}
				sched.Points[i].Values = values
			}
		}()
	}

	for i := range sched.Points {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}
