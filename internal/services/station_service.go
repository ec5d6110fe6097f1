package services

import (
	"context"
	"fmt"
	"time"

	"hamlog/stationmaster/internal/common"
	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/models/entities"

	"golang.org/x/sync/singleflight"
)

const stationCacheTTL = 5 * time.Minute

// StationService resolves stations for the import/export/sync paths. Lookups
// are cached and collapsed with singleflight so a burst of chunked import
// calls for one station hits the database once.
type StationService struct {
	repo  *repositories.StationRepository
	cache common.CacheInterface
	group singleflight.Group
}

func NewStationService(repo *repositories.StationRepository, cache common.CacheInterface) *StationService {
	return &StationService{repo: repo, cache: cache}
}

// GetByID returns the station, from cache when possible.
func (s *StationService) GetByID(ctx context.Context, stationID uint) (*entities.Station, error) {
	key := fmt.Sprintf("%s%d", constants.CachePrefixStation, stationID)

	if cached, ok := s.cache.Get(key); ok {
		if station, ok := cached.(*entities.Station); ok {
			return station, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		station, err := s.repo.GetByID(ctx, stationID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, station, stationCacheTTL)
		return station, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station %d: %w", stationID, err)
	}

	return v.(*entities.Station), nil
}

// GetForUser returns the station only if it belongs to the user. Ownership
// checks bypass the cache.
func (s *StationService) GetForUser(ctx context.Context, stationID, userID uint) (*entities.Station, error) {
	station, err := s.repo.GetForUser(ctx, stationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station %d for user %d: %w", stationID, userID, err)
	}
	return station, nil
}

// Invalidate drops a station from the cache, for callers that mutate
// station rows outside this service.
func (s *StationService) Invalidate(stationID uint) {
	s.cache.Delete(fmt.Sprintf("%s%d", constants.CachePrefixStation, stationID))
}
