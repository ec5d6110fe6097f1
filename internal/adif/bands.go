package adif

import (
	"fmt"
	"strings"
	"time"
)

// BandUnknown is returned for frequencies outside every amateur allocation.
// An unmapped frequency never fails a record.
const BandUnknown = "OTHER"

type bandRange struct {
	low, high float64 // MHz, inclusive
	name      string
}

var bandPlan = []bandRange{
	{1.8, 2.0, "160M"},
	{3.5, 4.0, "80M"},
	{7.0, 7.3, "40M"},
	{10.1, 10.15, "30M"},
	{14.0, 14.35, "20M"},
	{18.068, 18.168, "17M"},
	{21.0, 21.45, "15M"},
	{24.89, 24.99, "12M"},
	{28.0, 29.7, "10M"},
	{50.0, 54.0, "6M"},
	{144.0, 148.0, "2M"},
	{420.0, 450.0, "70CM"},
	{902.0, 928.0, "33CM"},
	{1240.0, 1300.0, "23CM"},
}

// FrequencyToBand maps a frequency in MHz to its amateur band designator.
func FrequencyToBand(freqMHz float64) string {
	for _, b := range bandPlan {
		if freqMHz >= b.low && freqMHz <= b.high {
			return b.name
		}
	}
	return BandUnknown
}

// ParseDateTime combines ADIF qso_date (YYYYMMDD) and time_on (HHMM or
// HHMMSS) into a UTC timestamp.
func ParseDateTime(qsoDate, timeOn string) (time.Time, error) {
	qsoDate = strings.TrimSpace(qsoDate)
	timeOn = strings.TrimSpace(timeOn)
	if len(qsoDate) != 8 {
		return time.Time{}, fmt.Errorf("invalid qso_date %q", qsoDate)
	}
	switch len(timeOn) {
	case 4:
		timeOn += "00"
	case 6:
	default:
		return time.Time{}, fmt.Errorf("invalid time_on %q", timeOn)
	}

	t, err := time.ParseInLocation("20060102150405", qsoDate+timeOn, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", qsoDate, timeOn, err)
	}
	return t, nil
}

// FormatDate renders a timestamp as ADIF qso_date (YYYYMMDD, UTC).
func FormatDate(t time.Time) string {
	return t.UTC().Format("20060102")
}

// FormatTime renders a timestamp as ADIF time_on (HHMMSS, UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format("150405")
}
