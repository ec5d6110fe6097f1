package repositories

import (
	"context"

	"hamlog/stationmaster/internal/constants"
	"hamlog/stationmaster/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type StationRepository struct {
	db *sqlx.DB
}

func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db}
}

func (r *StationRepository) GetByID(ctx context.Context, stationID uint) (*entities.Station, error) {

	var station entities.Station

	err := r.db.QueryRowxContext(ctx, constants.GetStationByID, stationID).StructScan(&station)
	if err != nil {
		return nil, err
	}

	return &station, nil
}

func (r *StationRepository) GetForUser(ctx context.Context, stationID, userID uint) (*entities.Station, error) {

	var station entities.Station

	err := r.db.QueryRowxContext(ctx, constants.GetStationForUser, stationID, userID).StructScan(&station)
	if err != nil {
		return nil, err
	}

	return &station, nil
}

// GetAutoSyncStations lists every station with scheduled LoTW sync enabled.
func (r *StationRepository) GetAutoSyncStations(ctx context.Context) ([]entities.Station, error) {

	var stations []entities.Station

	err := r.db.SelectContext(ctx, &stations, constants.GetAutoSyncStations)
	if err != nil {
		return nil, err
	}

	return stations, nil
}
