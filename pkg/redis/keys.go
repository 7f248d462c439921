package redis

import "fmt"

// Key construction helpers for cached daylight state

// WeatherStateKey returns the key for the latest cached weather state (hash)
// Pattern: weather:state:{location}
func WeatherStateKey(location string) string {
	return fmt.Sprintf("weather:state:%s", location)
}

// DaylightResultKey returns the key for the latest computed result (string, JSON)
// Pattern: daylight:result:{location}
func DaylightResultKey(location string) string {
	return fmt.Sprintf("daylight:result:%s", location)
}

// DaylightHistoryKey returns the key for recent computed results (list, JSON)
// Pattern: daylight:history:{location}
func DaylightHistoryKey(location string) string {
	return fmt.Sprintf("daylight:history:%s", location)
}

// ScheduleKey returns the key for the cached full-day schedule (string, JSON)
// Pattern: daylight:schedule:{location}:{date}
func ScheduleKey(location, date string) string {
	return fmt.Sprintf("daylight:schedule:%s:%s", location, date)
}
