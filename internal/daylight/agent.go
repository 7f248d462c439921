// Package daylight runs the live auto-CCT agent: it tracks cached weather
// state, periodically computes the current daylight target for the
// configured location, publishes light commands for a downstream executor
// and caches the full-day schedule for renderers.
package daylight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aleksivirta/daylight-platform/internal/calibration"
	"github.com/aleksivirta/daylight-platform/internal/curve"
	"github.com/aleksivirta/daylight-platform/internal/engine"
	"github.com/aleksivirta/daylight-platform/internal/schedule"
	"github.com/aleksivirta/daylight-platform/internal/sun"
	"github.com/aleksivirta/daylight-platform/internal/weather"
	"github.com/aleksivirta/daylight-platform/pkg/config"
	"github.com/aleksivirta/daylight-platform/pkg/mqtt"
	"github.com/aleksivirta/daylight-platform/pkg/redis"
)

const (
	resultTTL    = 24 * time.Hour
	scheduleTTL  = 48 * time.Hour
	historyDepth = 500
)

// Agent is the daylight automation agent
type Agent struct {
	mqtt   mqtt.Client
	redis  redis.Client
	cfg    *config.Config
	logger *slog.Logger

	engine  *engine.Engine
	builder *schedule.Builder
	store   *weather.Store

	liveCurve      curve.Type
	scheduleCurves []curve.Type
	bounds         engine.Bounds
	maxLux         calibration.MaxLuxMap
	targetLux      float64

	scheduleDate string

	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewAgent creates a daylight agent from configuration. Curve names and
// the max-lux spec are validated here so a misconfigured agent fails at
// startup, not mid-loop.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, cfg *config.Config, logger *slog.Logger) (*Agent, error) {
	liveCurve, err := curve.Parse(cfg.Curve)
	if err != nil {
		return nil, err
	}
	scheduleCurves, err := curve.ParseAll(cfg.ScheduleCurves)
	if err != nil {
		return nil, err
	}
	if len(scheduleCurves) == 0 {
		scheduleCurves = []curve.Type{liveCurve}
	}

	maxLux, targetLux, err := resolveCalibration(cfg)
	if err != nil {
		return nil, err
	}

	provider := sun.NewCalculator()
	eng := engine.New(provider)

	return &Agent{
		mqtt:           mqttClient,
		redis:          redisClient,
		cfg:            cfg,
		logger:         logger,
		engine:         eng,
		builder:        schedule.NewBuilder(eng, provider),
		store:          weather.NewStore(redisClient, time.Duration(cfg.WeatherMaxAgeMin)*time.Minute, logger),
		liveCurve:      liveCurve,
		scheduleCurves: scheduleCurves,
		bounds: engine.Bounds{
			MinK:   cfg.MinCCT,
			MaxK:   cfg.MaxCCT,
			MinPct: cfg.MinBrightnessPct,
			MaxPct: cfg.MaxBrightnessPct,
		}.Normalized(),
		maxLux:    maxLux,
		targetLux: targetLux,
		stopChan:  make(chan struct{}),
	}, nil
}

// resolveCalibration picks the max-lux map and lux target, preferring the
// rig calibration file over the flat spec string
func resolveCalibration(cfg *config.Config) (calibration.MaxLuxMap, float64, error) {
	if cfg.CalibrationFile != "" && cfg.Rig != "" {
		file, err := calibration.LoadFile(cfg.CalibrationFile)
		if err != nil {
			return nil, 0, err
		}
		rig, ok := file.Rig(cfg.Rig)
		if !ok {
			return nil, 0, fmt.Errorf("rig %q not found in %s", cfg.Rig, cfg.CalibrationFile)
		}
		m, err := calibration.ParseSpec(rig.MaxLux)
		if err != nil {
			return nil, 0, err
		}
		target := rig.TargetLux
		if cfg.TargetLux > 0 {
			target = cfg.TargetLux
		}
		return m, target, nil
	}

	if cfg.MaxLuxSpec != "" {
		m, err := calibration.ParseSpec(cfg.MaxLuxSpec)
		if err != nil {
			return nil, 0, err
		}
		return m, cfg.TargetLux, nil
	}

	return nil, cfg.TargetLux, nil
}

// Start starts the daylight agent and begins processing
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting daylight agent",
		"service_name", a.cfg.ServiceName,
		"location", a.cfg.Location,
		"latitude", a.cfg.Latitude,
		"longitude", a.cfg.Longitude,
		"curve", string(a.liveCurve),
		"update_interval_sec", a.cfg.UpdateIntervalSec)

	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	if a.cfg.UseWeather {
		topic := mqtt.WeatherContextTopic(a.cfg.Location)
		if err := a.mqtt.Subscribe(topic, 0, a.handleWeatherMessage); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}

	// Publish an initial state and today's schedule before the loop starts
	a.update(ctx, time.Now())

	a.startUpdateLoop()
	a.logger.Info("Daylight agent started and ready")

	<-ctx.Done()
	a.logger.Info("Daylight agent stopping")
	return nil
}

// Stop gracefully stops the daylight agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping daylight agent")

	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopChan)

	a.mqtt.Disconnect()

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Daylight agent stopped")
	return nil
}

func (a *Agent) startUpdateLoop() {
	a.ticker = time.NewTicker(time.Duration(a.cfg.UpdateIntervalSec) * time.Second)

	go func() {
		for {
			select {
			case <-a.ticker.C:
				a.update(context.Background(), time.Now())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// handleWeatherMessage caches weather context published by the external
// fetcher. Malformed payloads are logged and dropped; the engine simply
// keeps running with the previous (or no) weather state.
func (a *Agent) handleWeatherMessage(msg mqtt.Message) {
	var payload struct {
		CloudCover    float64 `json:"cloud_cover"`
		Precipitation string  `json:"precipitation"`
		Timestamp     string  `json:"timestamp"`
	}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		a.logger.Warn("Failed to parse weather context", "topic", msg.Topic(), "error", err)
		return
	}

	observed := time.Now()
	if ts, err := time.Parse(time.RFC3339, payload.Timestamp); err == nil {
		observed = ts
	}

	state := weather.State{
		CloudCover:    payload.CloudCover,
		Precipitation: weather.ParsePrecipitation(payload.Precipitation),
	}

	if err := a.store.Save(context.Background(), a.cfg.Location, state, observed); err != nil {
		a.logger.Error("Failed to cache weather state", "error", err)
		return
	}

	a.logger.Debug("Cached weather state",
		"cloud_cover", state.CloudCover,
		"precipitation", string(state.Precipitation))
}

// update computes the current daylight target, publishes it, and refreshes
// the cached schedule when the date rolls over
func (a *Agent) update(ctx context.Context, now time.Time) {
	var w *weather.State
	if a.cfg.UseWeather {
		state, err := a.store.Latest(ctx, a.cfg.Location)
		if err != nil {
			a.logger.Warn("Failed to read cached weather, computing without it", "error", err)
		} else {
			w = state
		}
	}

	res := a.engine.Compute(a.cfg.Latitude, a.cfg.Longitude, now, a.bounds, a.liveCurve, w)

	intensity := res.Intensity
	source := "curve"
	if a.targetLux > 0 && len(a.maxLux) > 0 {
		intensity = a.maxLux.IntensityForLux(a.targetLux, res.CCT)
		source = "lux_target"
	}

	if err := a.publishTarget(now, res, intensity, source, w); err != nil {
		a.logger.Error("Failed to publish daylight target", "error", err)
	}
	if err := a.cacheResult(ctx, now, res, intensity); err != nil {
		a.logger.Error("Failed to cache daylight result", "error", err)
	}

	if date := now.Format("2006-01-02"); date != a.scheduleDate {
		if err := a.refreshSchedule(ctx, now, w); err != nil {
			a.logger.Error("Failed to refresh schedule", "error", err)
		} else {
			a.scheduleDate = date
		}
	}

	a.logger.Debug("Daylight target updated",
		"cct", res.CCT,
		"intensity", intensity,
		"light_output", res.LightOutput,
		"intensity_source", source,
		"weather_applied", w != nil)
}

// publishTarget publishes both the light command and the daylight context
func (a *Agent) publishTarget(now time.Time, res engine.Result, intensity int, source string, w *weather.State) error {
	timestamp := now.Format(time.RFC3339)

	command := map[string]any{
		"action":       "set",
		"cct":          res.CCT,
		"intensity":    intensity,
		"light_output": res.LightOutput,
		"curve":        string(a.liveCurve),
		"timestamp":    timestamp,
	}
	if err := a.mqtt.PublishJSON(mqtt.LightCommandTopic(a.cfg.Location), command); err != nil {
		return err
	}

	context := map[string]any{
		"source":           a.cfg.ServiceName,
		"location":         a.cfg.Location,
		"cct":              res.CCT,
		"intensity":        intensity,
		"intensity_source": source,
		"light_output":     res.LightOutput,
		"curve":            string(a.liveCurve),
		"weather_applied":  w != nil,
		"timestamp":        timestamp,
	}
	return a.mqtt.PublishJSON(mqtt.DaylightContextTopic(a.cfg.Location), context)
}

// cacheResult stores the latest result and appends it to the bounded
// history list for downstream consumers
func (a *Agent) cacheResult(ctx context.Context, now time.Time, res engine.Result, intensity int) error {
	entry, err := json.Marshal(map[string]any{
		"cct":          res.CCT,
		"intensity":    intensity,
		"light_output": res.LightOutput,
		"curve":        string(a.liveCurve),
		"timestamp":    now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	key := redis.DaylightResultKey(a.cfg.Location)
	if err := a.redis.Set(ctx, key, entry, resultTTL); err != nil {
		return err
	}

	historyKey := redis.DaylightHistoryKey(a.cfg.Location)
	if err := a.redis.LPush(ctx, historyKey, entry); err != nil {
		return err
	}
	return a.redis.LTrim(ctx, historyKey, 0, historyDepth-1)
}

// refreshSchedule builds today's schedule and caches it for renderers
func (a *Agent) refreshSchedule(ctx context.Context, now time.Time, w *weather.State) error {
	sched, err := a.builder.Build(schedule.Request{
		Latitude:        a.cfg.Latitude,
		Longitude:       a.cfg.Longitude,
		Date:            now,
		Bounds:          a.bounds,
		Curves:          a.scheduleCurves,
		IntervalMinutes: a.cfg.ScheduleIntervalMin,
		BufferMinutes:   a.cfg.ScheduleBufferMin,
		IncludeEvents:   a.cfg.IncludeSunEvents,
		Weather:         w,
		LocationSource:  a.cfg.LocationSource,
	})
	if err != nil {
		return err
	}

	payload, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	key := redis.ScheduleKey(a.cfg.Location, sched.Date)
	if err := a.redis.Set(ctx, key, payload, scheduleTTL); err != nil {
		return err
	}

	a.logger.Info("Cached daily schedule",
		"date", sched.Date,
		"points", len(sched.Points),
		"curves", len(sched.Curves))
	return nil
}
