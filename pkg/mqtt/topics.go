package mqtt

import "fmt"

// Topic constants for the daylight agent
const (
	// Live weather context published by an external fetcher (input)
	TopicWeatherContext = "automation/context/weather/+"

	// Light command and daylight context topics (output)
	TopicCommandBase = "automation/command/light"
	TopicContextBase = "automation/context/daylight"
)

// WeatherContextTopic constructs the weather context topic for a location
// Pattern: automation/context/weather/{location}
func WeatherContextTopic(location string) string {
	return fmt.Sprintf("automation/context/weather/%s", location)
}

// LightCommandTopic constructs the light command topic for a location
// Pattern: automation/command/light/{location}
func LightCommandTopic(location string) string {
	return fmt.Sprintf("%s/%s", TopicCommandBase, location)
}

// DaylightContextTopic constructs the daylight context topic for a location
// Pattern: automation/context/daylight/{location}
func DaylightContextTopic(location string) string {
	return fmt.Sprintf("%s/%s", TopicContextBase, location)
}
