package services

import (
	"strings"
	"time"

	gormModels "hamlog/stationmaster/internal/models/gorm"
)

// matchToleranceMinutes is the accept window on the time-of-day delta.
// LoTW reports the other side's clock, so a few minutes of drift between
// the two logs is normal.
const matchToleranceMinutes = 5

// MatchStatus classifies an accepted match.
type MatchStatus string

const (
	MatchConfirmed MatchStatus = "confirmed"
	MatchPartial   MatchStatus = "partial"
	MatchMismatch  MatchStatus = "mismatch"
)

// Confirmation is a third-party-asserted contact. It carries no stable
// identifier shared with the local log; pairing is fuzzy.
type Confirmation struct {
	Callsign string
	Datetime time.Time
	Band     string
	Mode     string
	QslDate  *time.Time
}

// Match pairs one confirmation with at most one local contact.
type Match struct {
	Confirmation Confirmation
	Contact      *gormModels.Contact
	Status       MatchStatus
}

// MatchReport is the outcome of one matching run. Unmatched confirmations
// are reported, never dropped.
type MatchReport struct {
	Matches   []Match
	Unmatched []Confirmation
}

// MatchPolicy classifies an accepted pairing. It runs only after the
// identity gate (callsign, day, time tolerance) has accepted the pair.
type MatchPolicy func(conf Confirmation, contact *gormModels.Contact) MatchStatus

// DefaultMatchPolicy: band and mode agreement means confirmed, any
// disagreement on those fields degrades to partial. It never emits
// mismatch; that status is reserved for stricter policies.
func DefaultMatchPolicy(conf Confirmation, contact *gormModels.Contact) MatchStatus {
	if conf.Band != "" && !strings.EqualFold(conf.Band, contact.Band) {
		return MatchPartial
	}
	if conf.Mode != "" && !strings.EqualFold(conf.Mode, contact.Mode) {
		return MatchPartial
	}
	return MatchConfirmed
}

// MatchConfirmations pairs confirmations against candidate contacts. A
// candidate, once claimed, is removed from the pool for the rest of the
// run. Acceptance requires equal normalized callsigns, the same UTC
// calendar day, and a time-of-day delta within the tolerance window. The
// function is pure: it mutates neither input slice.
func MatchConfirmations(confirmations []Confirmation, contacts []gormModels.Contact, policy MatchPolicy) MatchReport {
	if policy == nil {
		policy = DefaultMatchPolicy
	}

	var report MatchReport
	claimed := make(map[int]bool, len(contacts))

	for _, conf := range confirmations {
		idx := findCandidate(conf, contacts, claimed)
		if idx < 0 {
			report.Unmatched = append(report.Unmatched, conf)
			continue
		}

		claimed[idx] = true
		report.Matches = append(report.Matches, Match{
			Confirmation: conf,
			Contact:      &contacts[idx],
			Status:       policy(conf, &contacts[idx]),
		})
	}

	return report
}

func findCandidate(conf Confirmation, contacts []gormModels.Contact, claimed map[int]bool) int {
	confCall := normalizeCallsign(conf.Callsign)
	confDay := conf.Datetime.UTC().Truncate(24 * time.Hour)
	confMinutes := minutesSinceMidnight(conf.Datetime)

	for i := range contacts {
		if claimed[i] {
			continue
		}
		if normalizeCallsign(contacts[i].Callsign) != confCall {
			continue
		}
		if !contacts[i].Datetime.UTC().Truncate(24 * time.Hour).Equal(confDay) {
			continue
		}
		delta := confMinutes - minutesSinceMidnight(contacts[i].Datetime)
		if delta < 0 {
			delta = -delta
		}
		if delta > matchToleranceMinutes {
			continue
		}
		return i
	}
	return -1
}

func normalizeCallsign(call string) string {
	return strings.ToUpper(strings.TrimSpace(call))
}

func minutesSinceMidnight(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}
