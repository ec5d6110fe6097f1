package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hamlog/stationmaster/internal/adif"
	"hamlog/stationmaster/internal/db/repositories"
	"hamlog/stationmaster/internal/logging"
	"hamlog/stationmaster/internal/models/dtos"
	"hamlog/stationmaster/internal/models/entities"
	gormModels "hamlog/stationmaster/internal/models/gorm"
)

// ErrNoContacts distinguishes "nothing to export" from a failure, so
// callers can tell an empty range apart from a broken one.
var ErrNoContacts = errors.New("no contacts found for the specified criteria")

const exportProgramID = "Stationmaster"

// ExportService builds complete ADIF files from a station's stored contacts.
type ExportService struct {
	contacts *repositories.ContactRepository
	stations *StationService
}

func NewExportService(contacts *repositories.ContactRepository, stations *StationService) *ExportService {
	return &ExportService{contacts: contacts, stations: stations}
}

// ExportADIF encodes the station's contacts inside [from, to] as an ADIF
// file. Nil bounds auto-range from the station's earliest and latest contact
// timestamps. Returns ErrNoContacts when the range holds nothing.
func (s *ExportService) ExportADIF(ctx context.Context, stationID uint, from, to *time.Time) (*dtos.ExportResult, error) {
	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	if from == nil || to == nil {
		minDt, maxDt, err := s.contacts.DatetimeRange(ctx, stationID)
		if err != nil {
			return nil, err
		}
		if minDt == nil || maxDt == nil {
			return nil, ErrNoContacts
		}
		if from == nil {
			from = minDt
		}
		if to == nil {
			to = maxDt
		}
	}

	contacts, err := s.contacts.FindByStationAndRange(ctx, stationID, from, to)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	records := make([]adif.Record, 0, len(contacts))
	for i := range contacts {
		records = append(records, contactToRecord(&contacts[i], station))
	}

	content := adif.EncodeRecords(records, adif.Header{
		ProgramID: exportProgramID,
		CreatedAt: time.Now().UTC(),
	})

	filename := fmt.Sprintf("%s_%s.adi",
		strings.ReplaceAll(station.Callsign, "/", "_"),
		time.Now().UTC().Format("2006-01-02"))

	logging.Info("export built",
		"station_id", stationID, "count", len(contacts), "filename", filename)

	return &dtos.ExportResult{
		Filename: filename,
		Content:  content,
		Count:    len(contacts),
	}, nil
}

// contactToRecord maps a stored contact to ADIF vocabulary, echoing the
// owning station's identity as my_* fields.
func contactToRecord(c *gormModels.Contact, station *entities.Station) adif.Record {
	rec := adif.Record{
		"call":     c.Callsign,
		"qso_date": adif.FormatDate(c.Datetime),
		"time_on":  adif.FormatTime(c.Datetime),
		"band":     c.Band,
		"mode":     c.Mode,
	}

	if c.Frequency != nil {
		rec["freq"] = strconv.FormatFloat(*c.Frequency, 'f', -1, 64)
	}

	setIf(rec, "rst_sent", c.RstSent)
	setIf(rec, "rst_rcvd", c.RstReceived)
	setIf(rec, "name", c.Name)
	setIf(rec, "qth", c.Qth)
	setIf(rec, "gridsquare", c.GridLocator)
	setIf(rec, "comment", c.Notes)
	setIf(rec, "country", c.Country)
	setIf(rec, "state", c.State)
	setIf(rec, "cnty", c.County)
	setIf(rec, "cont", c.Continent)
	setIf(rec, "operator", c.Operator)
	setIntIf(rec, "dxcc", c.Dxcc)
	setIntIf(rec, "cqz", c.CqZone)
	setIntIf(rec, "ituz", c.ItuZone)

	rec["station_callsign"] = station.Callsign
	if station.GridLocator != nil {
		rec["my_gridsquare"] = *station.GridLocator
	}
	if station.City != nil {
		rec["my_city"] = *station.City
	}
	if station.StateProvince != nil {
		rec["my_state"] = *station.StateProvince
	}
	if station.Country != nil {
		rec["my_country"] = *station.Country
	}
	if station.DxccEntityCode != nil {
		rec["my_dxcc"] = strconv.Itoa(*station.DxccEntityCode)
	}
	if station.ItuZone != nil {
		rec["my_itu_zone"] = strconv.Itoa(*station.ItuZone)
	}
	if station.CqZone != nil {
		rec["my_cq_zone"] = strconv.Itoa(*station.CqZone)
	}
	if station.PowerWatts != nil {
		rec["tx_pwr"] = strconv.Itoa(*station.PowerWatts)
	}

	return rec
}

func setIf(rec adif.Record, name, value string) {
	if value != "" {
		rec[name] = value
	}
}

func setIntIf(rec adif.Record, name string, value *int) {
	if value != nil {
		rec[name] = strconv.Itoa(*value)
	}
}
