package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormModels "hamlog/stationmaster/internal/models/gorm"

	"gorm.io/gorm"
)

// ContactRepository handles contact table operations using GORM
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new GORM-based contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ExistsByIdentity reports whether a contact with the same dedup identity
// (user, station, callsign, exact datetime) is already stored. Callsign is
// compared after uppercase normalization on the caller side.
func (r *ContactRepository) ExistsByIdentity(ctx context.Context, userID, stationID uint, callsign string, datetime time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Contact{}).
		Where("user_id = ? AND station_id = ? AND callsign = ? AND datetime = ?",
			userID, stationID, callsign, datetime).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check contact identity: %w", err)
	}

	return count > 0, nil
}

// Insert stores a single contact.
func (r *ContactRepository) Insert(ctx context.Context, contact *gormModels.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// FindByStationAndRange retrieves a station's contacts whose datetime falls
// inside [from, to]. A nil bound leaves that side open.
func (r *ContactRepository) FindByStationAndRange(ctx context.Context, stationID uint, from, to *time.Time) ([]gormModels.Contact, error) {
	var contacts []gormModels.Contact

	q := r.db.WithContext(ctx).
		Where("station_id = ?", stationID)
	if from != nil {
		q = q.Where("datetime >= ?", *from)
	}
	if to != nil {
		q = q.Where("datetime <= ?", *to)
	}

	if err := q.Order("datetime ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	return contacts, nil
}

// FindByCallsignAndDay retrieves a station's contacts with the given
// callsign whose datetime falls on the given UTC calendar day.
func (r *ContactRepository) FindByCallsignAndDay(ctx context.Context, stationID uint, callsign string, day time.Time) ([]gormModels.Contact, error) {
	var contacts []gormModels.Contact

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	err := r.db.WithContext(ctx).
		Where("station_id = ? AND callsign = ? AND datetime >= ? AND datetime < ?",
			stationID, callsign, dayStart, dayEnd).
		Order("datetime ASC").
		Find(&contacts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts for day: %w", err)
	}

	return contacts, nil
}

// DatetimeRange returns the earliest and latest contact datetime for a
// station. Both are nil when the station has no contacts. Two ordered
// lookups instead of MIN/MAX so the aggregate never has to round-trip
// through a driver-specific column type.
func (r *ContactRepository) DatetimeRange(ctx context.Context, stationID uint) (*time.Time, *time.Time, error) {
	var earliest, latest gormModels.Contact

	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("datetime ASC").
		First(&earliest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch datetime range: %w", err)
	}

	err = r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("datetime DESC").
		First(&latest).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch datetime range: %w", err)
	}

	return &earliest.Datetime, &latest.Datetime, nil
}

// MarkLotwSent flags the given contacts as uploaded to LoTW.
func (r *ContactRepository) MarkLotwSent(ctx context.Context, contactIDs []uint, sentAt time.Time) error {
	if len(contactIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&gormModels.Contact{}).
		Where("id IN ?", contactIDs).
		Updates(map[string]any{
			"lotw_qsl_sent": "Y",
			"updated_at":    sentAt,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to mark contacts uploaded: %w", err)
	}

	return nil
}

// ApplyConfirmation writes a matcher verdict onto a contact.
func (r *ContactRepository) ApplyConfirmation(ctx context.Context, contactID uint, matchStatus string, qslDate time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Contact{}).
		Where("id = ?", contactID).
		Updates(map[string]any{
			"lotw_qsl_rcvd":     "Y",
			"qsl_rcvd":          "Y",
			"lotw_qsl_date":     qslDate,
			"lotw_match_status": matchStatus,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to apply confirmation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("contact not found with ID: %d", contactID)
	}

	return nil
}
