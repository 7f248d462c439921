package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds the configuration for a daylight-platform agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Location configuration
	Location       string
	LocationSource string
	Latitude       float64
	Longitude      float64

	// Curve and bounds configuration
	Curve            string
	ScheduleCurves   []string
	MinCCT           int
	MaxCCT           int
	MinBrightnessPct int
	MaxBrightnessPct int

	// Calibration configuration
	MaxLuxSpec      string
	CalibrationFile string
	Rig             string
	TargetLux       float64

	// Agent loop configuration
	UpdateIntervalSec   int
	ScheduleIntervalMin int
	ScheduleBufferMin   int
	IncludeSunEvents    bool

	// Weather configuration
	UseWeather       bool
	WeatherMaxAgeMin int
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		ServiceName:   "daylight-agent",
		HealthPort:    8080,
		LogLevel:      "info",
		// Location defaults (Helsinki coordinates)
		Location:       "living_room",
		LocationSource: "configured",
		Latitude:       60.1695,
		Longitude:      24.9354,
		// Curve and bounds defaults
		Curve:            "hann",
		ScheduleCurves:   []string{"hann"},
		MinCCT:           2000,
		MaxCCT:           6500,
		MinBrightnessPct: 5,
		MaxBrightnessPct: 100,
		// Calibration defaults (0 lux target disables lux-driven intensity)
		MaxLuxSpec:      "",
		CalibrationFile: "",
		Rig:             "",
		TargetLux:       0,
		// Agent loop defaults
		UpdateIntervalSec:   60,
		ScheduleIntervalMin: 15,
		ScheduleBufferMin:   60,
		IncludeSunEvents:    true,
		// Weather defaults
		UseWeather:       true,
		WeatherMaxAgeMin: 60,
	}
}

// LoadFromEnv loads configuration from environment variables with DAYLIGHT_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("DAYLIGHT_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("DAYLIGHT_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("DAYLIGHT_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("DAYLIGHT_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("DAYLIGHT_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("DAYLIGHT_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("DAYLIGHT_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("DAYLIGHT_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("DAYLIGHT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Service configuration
	if v := os.Getenv("DAYLIGHT_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("DAYLIGHT_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("DAYLIGHT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Location configuration
	if v := os.Getenv("DAYLIGHT_LOCATION"); v != "" {
		c.Location = v
	}
	if v := os.Getenv("DAYLIGHT_LOCATION_SOURCE"); v != "" {
		c.LocationSource = v
	}
	if v := os.Getenv("DAYLIGHT_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("DAYLIGHT_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}

	// Curve and bounds configuration
	if v := os.Getenv("DAYLIGHT_CURVE"); v != "" {
		c.Curve = v
	}
	if v := os.Getenv("DAYLIGHT_SCHEDULE_CURVES"); v != "" {
		c.ScheduleCurves = splitList(v)
	}
	if v := os.Getenv("DAYLIGHT_MIN_CCT"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.MinCCT = k
		}
	}
	if v := os.Getenv("DAYLIGHT_MAX_CCT"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.MaxCCT = k
		}
	}
	if v := os.Getenv("DAYLIGHT_MIN_BRIGHTNESS_PCT"); v != "" {
		if pct, err := strconv.Atoi(v); err == nil {
			c.MinBrightnessPct = pct
		}
	}
	if v := os.Getenv("DAYLIGHT_MAX_BRIGHTNESS_PCT"); v != "" {
		if pct, err := strconv.Atoi(v); err == nil {
			c.MaxBrightnessPct = pct
		}
	}

	// Calibration configuration
	if v := os.Getenv("DAYLIGHT_MAX_LUX"); v != "" {
		c.MaxLuxSpec = v
	}
	if v := os.Getenv("DAYLIGHT_CALIBRATION_FILE"); v != "" {
		c.CalibrationFile = v
	}
	if v := os.Getenv("DAYLIGHT_RIG"); v != "" {
		c.Rig = v
	}
	if v := os.Getenv("DAYLIGHT_TARGET_LUX"); v != "" {
		if lux, err := strconv.ParseFloat(v, 64); err == nil {
			c.TargetLux = lux
		}
	}

	// Agent loop configuration
	if v := os.Getenv("DAYLIGHT_UPDATE_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.UpdateIntervalSec = interval
		}
	}
	if v := os.Getenv("DAYLIGHT_SCHEDULE_INTERVAL_MIN"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.ScheduleIntervalMin = interval
		}
	}
	if v := os.Getenv("DAYLIGHT_SCHEDULE_BUFFER_MIN"); v != "" {
		if buffer, err := strconv.Atoi(v); err == nil {
			c.ScheduleBufferMin = buffer
		}
	}
	if v := os.Getenv("DAYLIGHT_INCLUDE_SUN_EVENTS"); v != "" {
		if include, err := strconv.ParseBool(v); err == nil {
			c.IncludeSunEvents = include
		}
	}

	// Weather configuration
	if v := os.Getenv("DAYLIGHT_USE_WEATHER"); v != "" {
		if use, err := strconv.ParseBool(v); err == nil {
			c.UseWeather = use
		}
	}
	if v := os.Getenv("DAYLIGHT_WEATHER_MAX_AGE_MIN"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			c.WeatherMaxAgeMin = minutes
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Location flags
	pflag.StringVar(&c.Location, "location", c.Location, "Location name used in MQTT topics")
	pflag.StringVar(&c.LocationSource, "location-source", c.LocationSource, "Label describing where coordinates came from")
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for daylight calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for daylight calculation")

	// Curve and bounds flags
	pflag.StringVar(&c.Curve, "curve", c.Curve, "Daylight curve used for live updates")
	pflag.StringSliceVar(&c.ScheduleCurves, "schedule-curves", c.ScheduleCurves, "Curves evaluated when building the daily schedule")
	pflag.IntVar(&c.MinCCT, "min-cct", c.MinCCT, "Minimum color temperature in Kelvin")
	pflag.IntVar(&c.MaxCCT, "max-cct", c.MaxCCT, "Maximum color temperature in Kelvin")
	pflag.IntVar(&c.MinBrightnessPct, "min-brightness", c.MinBrightnessPct, "Minimum brightness percent")
	pflag.IntVar(&c.MaxBrightnessPct, "max-brightness", c.MaxBrightnessPct, "Maximum brightness percent")

	// Calibration flags
	pflag.StringVar(&c.MaxLuxSpec, "max-lux", c.MaxLuxSpec, "Max-lux map, e.g. \"2700:8000,6500:9000\", or a bare number")
	pflag.StringVar(&c.CalibrationFile, "calibration-file", c.CalibrationFile, "YAML rig calibration file")
	pflag.StringVar(&c.Rig, "rig", c.Rig, "Rig name to select from the calibration file")
	pflag.Float64Var(&c.TargetLux, "target-lux", c.TargetLux, "Desired illuminance target in lux (0 disables)")

	// Agent loop flags
	pflag.IntVar(&c.UpdateIntervalSec, "update-interval", c.UpdateIntervalSec, "Live update interval in seconds")
	pflag.IntVar(&c.ScheduleIntervalMin, "schedule-interval", c.ScheduleIntervalMin, "Schedule grid spacing in minutes")
	pflag.IntVar(&c.ScheduleBufferMin, "schedule-buffer", c.ScheduleBufferMin, "Schedule window buffer in minutes")
	pflag.BoolVar(&c.IncludeSunEvents, "include-sun-events", c.IncludeSunEvents, "Merge named sun events into the schedule")

	// Weather flags
	pflag.BoolVar(&c.UseWeather, "use-weather", c.UseWeather, "Apply cached weather adjustment")
	pflag.IntVar(&c.WeatherMaxAgeMin, "weather-max-age-min", c.WeatherMaxAgeMin, "Maximum age of cached weather state (minutes)")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.Location == "" {
		return fmt.Errorf("Location name is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.ScheduleIntervalMin <= 0 {
		return fmt.Errorf("schedule interval must be positive")
	}
	if c.TargetLux < 0 {
		return fmt.Errorf("target lux must not be negative")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
