package services

import (
	"testing"
	"time"

	gormModels "hamlog/stationmaster/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactAt(id uint, call string, dt time.Time, band, mode string) gormModels.Contact {
	return gormModels.Contact{
		ID:       id,
		Callsign: call,
		Datetime: dt,
		Band:     band,
		Mode:     mode,
	}
}

func TestMatchWithinTolerance(t *testing.T) {
	// Confirmation at 12:00, local contact at 12:03: a 3-minute delta
	// is inside the window and band/mode agree, so confirmed.
	conf := Confirmation{
		Callsign: "K1ABC",
		Datetime: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		Band:     "20M",
		Mode:     "SSB",
	}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", time.Date(2023, 1, 1, 12, 3, 0, 0, time.UTC), "20M", "SSB"),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)

	require.Len(t, report.Matches, 1)
	assert.Empty(t, report.Unmatched)
	assert.Equal(t, MatchConfirmed, report.Matches[0].Status)
	assert.Equal(t, uint(1), report.Matches[0].Contact.ID)
}

func TestMatchBeyondTolerance(t *testing.T) {
	conf := Confirmation{
		Callsign: "K1ABC",
		Datetime: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", time.Date(2023, 1, 1, 12, 10, 0, 0, time.UTC), "20M", "SSB"),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)

	assert.Empty(t, report.Matches)
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "K1ABC", report.Unmatched[0].Callsign)
}

func TestMatchToleranceBoundary(t *testing.T) {
	base := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

	atBoundary := Confirmation{Callsign: "W1AW", Datetime: base}
	contacts := []gormModels.Contact{
		contactAt(1, "W1AW", base.Add(5*time.Minute), "", ""),
	}
	report := MatchConfirmations([]Confirmation{atBoundary}, contacts, nil)
	assert.Len(t, report.Matches, 1, "delta exactly at the tolerance should match")

	contacts[0].Datetime = base.Add(6 * time.Minute)
	report = MatchConfirmations([]Confirmation{atBoundary}, contacts, nil)
	assert.Empty(t, report.Matches, "one minute beyond the tolerance should not match")
}

func TestMatchRequiresSameCalendarDay(t *testing.T) {
	// 23:58 vs 00:02 next day: only 4 minutes apart, but the date
	// component has no tolerance.
	conf := Confirmation{
		Callsign: "W1AW",
		Datetime: time.Date(2023, 1, 1, 23, 58, 0, 0, time.UTC),
	}
	contacts := []gormModels.Contact{
		contactAt(1, "W1AW", time.Date(2023, 1, 2, 0, 2, 0, 0, time.UTC), "", ""),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)
	assert.Empty(t, report.Matches)
	assert.Len(t, report.Unmatched, 1)
}

func TestMatchCallsignNormalization(t *testing.T) {
	conf := Confirmation{
		Callsign: " k1abc ",
		Datetime: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), "", ""),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)
	assert.Len(t, report.Matches, 1)
}

func TestMatchClaimsContactOnce(t *testing.T) {
	dt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	confs := []Confirmation{
		{Callsign: "K1ABC", Datetime: dt},
		{Callsign: "K1ABC", Datetime: dt.Add(1 * time.Minute)},
	}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", dt, "", ""),
	}

	report := MatchConfirmations(confs, contacts, nil)

	require.Len(t, report.Matches, 1)
	require.Len(t, report.Unmatched, 1)

	seen := map[uint]int{}
	for _, m := range report.Matches {
		seen[m.Contact.ID]++
	}
	for id, n := range seen {
		assert.Equalf(t, 1, n, "contact %d claimed %d times", id, n)
	}
}

func TestMatchTwoConfirmationsTwoContacts(t *testing.T) {
	dt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	confs := []Confirmation{
		{Callsign: "K1ABC", Datetime: dt},
		{Callsign: "K1ABC", Datetime: dt.Add(2 * time.Minute)},
	}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", dt, "", ""),
		contactAt(2, "K1ABC", dt.Add(2*time.Minute), "", ""),
	}

	report := MatchConfirmations(confs, contacts, nil)

	require.Len(t, report.Matches, 2)
	assert.NotEqual(t, report.Matches[0].Contact.ID, report.Matches[1].Contact.ID)
}

func TestDefaultPolicyBandMismatchIsPartial(t *testing.T) {
	dt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	conf := Confirmation{Callsign: "K1ABC", Datetime: dt, Band: "40M", Mode: "SSB"}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", dt, "20M", "SSB"),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)

	require.Len(t, report.Matches, 1)
	assert.Equal(t, MatchPartial, report.Matches[0].Status)
}

func TestDefaultPolicyMissingBandStaysConfirmed(t *testing.T) {
	dt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	conf := Confirmation{Callsign: "K1ABC", Datetime: dt}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", dt, "20M", "CW"),
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, nil)

	require.Len(t, report.Matches, 1)
	assert.Equal(t, MatchConfirmed, report.Matches[0].Status)
}

func TestCustomPolicy(t *testing.T) {
	dt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	conf := Confirmation{Callsign: "K1ABC", Datetime: dt.Add(4 * time.Minute)}
	contacts := []gormModels.Contact{
		contactAt(1, "K1ABC", dt, "", ""),
	}

	strict := func(conf Confirmation, contact *gormModels.Contact) MatchStatus {
		if !conf.Datetime.Equal(contact.Datetime) {
			return MatchMismatch
		}
		return MatchConfirmed
	}

	report := MatchConfirmations([]Confirmation{conf}, contacts, strict)

	require.Len(t, report.Matches, 1)
	assert.Equal(t, MatchMismatch, report.Matches[0].Status)
}
