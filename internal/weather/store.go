package weather

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/aleksivirta/daylight-platform/pkg/redis"
)

// Store caches the latest weather state per location in Redis. An external
// fetcher publishes weather context; the agent writes it here and the
// engine reads it back, tolerating absence and staleness.
type Store struct {
	redis  redis.Client
	maxAge time.Duration
	logger *slog.Logger
}

// NewStore creates a weather store with the given staleness limit
func NewStore(redisClient redis.Client, maxAge time.Duration, logger *slog.Logger) *Store {
	return &Store{
		redis:  redisClient,
		maxAge: maxAge,
		logger: logger,
	}
}

// Save stores the latest weather state for a location
func (s *Store) Save(ctx context.Context, location string, state State, observed time.Time) error {
	key := redis.WeatherStateKey(location)
	if err := s.redis.HSet(ctx, key,
		"cloud_cover", strconv.FormatFloat(state.CloudCover, 'f', -1, 64),
		"precipitation", string(state.Precipitation),
		"observed_at", observed.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	// Keep the key around twice as long as the staleness limit so a
	// stale-but-present entry is distinguishable from no data at all.
	return s.redis.Expire(ctx, key, 2*s.maxAge)
}

// Latest returns the cached weather state for a location, or nil when no
// state is cached, the entry is stale, or the entry cannot be parsed.
// Absence of weather is not an error.
func (s *Store) Latest(ctx context.Context, location string) (*State, error) {
	fields, err := s.redis.HGetAll(ctx, redis.WeatherStateKey(location))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	observed, err := time.Parse(time.RFC3339, fields["observed_at"])
	if err != nil || time.Since(observed) > s.maxAge {
		s.logger.Debug("Cached weather state is stale or unreadable",
			"location", location,
			"observed_at", fields["observed_at"])
		return nil, nil
	}

	cover, err := strconv.ParseFloat(fields["cloud_cover"], 64)
	if err != nil {
		return nil, nil
	}

	return &State{
		CloudCover:    clamp01(cover),
		Precipitation: ParsePrecipitation(fields["precipitation"]),
	}, nil
}
