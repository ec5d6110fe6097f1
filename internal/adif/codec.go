package adif

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is a single ADIF record: field values keyed by lowercase tag name.
type Record map[string]string

// Header describes the file-level header block emitted before <eoh>.
type Header struct {
	ProgramID      string
	ProgramVersion string
	ADIFVersion    string
	CreatedAt      time.Time
}

const (
	headerTerminator = "<eoh>"
	recordTerminator = "<eor>"

	// DefaultADIFVersion is the ADIF spec version stamped on exports.
	DefaultADIFVersion = "3.1.5"
)

// fieldToken matches one <name:len>value token. Anything that does not match
// is skipped without failing the record; the format has no escaping, so a
// value containing "<" terminates the token early.
var fieldToken = regexp.MustCompile(`<([^:<>]+):(\d+)>([^<]*)`)

// requiredFieldOrder is emitted first on every encoded record.
var requiredFieldOrder = []string{"call", "qso_date", "time_on"}

// Decode parses ADIF text into records. Everything before the (case
// insensitive) <eoh> marker is header and discarded; the body is split on
// <eor>. Fragments yielding zero fields are treated as noise and dropped.
func Decode(text string) []Record {
	body := text
	if idx := strings.Index(strings.ToLower(text), headerTerminator); idx >= 0 {
		body = text[idx+len(headerTerminator):]
	}

	var records []Record
	for _, fragment := range splitCaseInsensitive(body, recordTerminator) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		rec := decodeRecord(fragment)
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// HeaderText returns the raw header block of an ADIF file, including the
// terminator, or "" when the file carries no header. The chunker copies this
// verbatim onto every sub-file it emits.
func HeaderText(text string) string {
	if idx := strings.Index(strings.ToLower(text), headerTerminator); idx >= 0 {
		return text[:idx+len(headerTerminator)] + "\n"
	}
	return ""
}

func decodeRecord(fragment string) Record {
	rec := Record{}
	for _, m := range fieldToken.FindAllStringSubmatch(fragment, -1) {
		name := strings.ToLower(m[1])
		// A declared length too large for an int is input garbage, not a
		// field; drop the token rather than trust the number.
		length, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		value := m[3]
		// The grammar is fixed-width: characters beyond the declared
		// length belong to the next token or are padding.
		if len(value) > length {
			value = value[:length]
		}
		rec[name] = strings.TrimSpace(value)
	}
	return rec
}

// EncodeRecords builds a complete ADIF file: header block followed by every
// record, each closed with <eor>.
func EncodeRecords(records []Record, hdr Header) string {
	var b strings.Builder
	b.WriteString(encodeHeader(hdr))
	for _, rec := range records {
		b.WriteString(EncodeRecord(rec))
		b.WriteString("\n")
	}
	return b.String()
}

// EncodeRecord serializes one record: required fields first (call, qso_date,
// time_on), then the remaining populated fields in stable alphabetical order.
// Empty fields are skipped. Values containing the record terminator cannot be
// represented losslessly; the format has no escaping.
func EncodeRecord(rec Record) string {
	var b strings.Builder

	emitted := make(map[string]bool, len(rec))
	for _, name := range requiredFieldOrder {
		if v := rec[name]; v != "" {
			writeField(&b, name, v)
			emitted[name] = true
		}
	}

	rest := make([]string, 0, len(rec))
	for name, v := range rec {
		if !emitted[name] && v != "" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		writeField(&b, name, rec[name])
	}

	b.WriteString("<eor>")
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "<%s:%d>%s", name, len(value), value)
}

func encodeHeader(hdr Header) string {
	var b strings.Builder
	b.WriteString("ADIF Export\n")
	if hdr.ADIFVersion == "" {
		hdr.ADIFVersion = DefaultADIFVersion
	}
	writeField(&b, "adif_ver", hdr.ADIFVersion)
	b.WriteString("\n")
	if hdr.ProgramID != "" {
		writeField(&b, "programid", hdr.ProgramID)
		b.WriteString("\n")
	}
	if hdr.ProgramVersion != "" {
		writeField(&b, "programversion", hdr.ProgramVersion)
		b.WriteString("\n")
	}
	if !hdr.CreatedAt.IsZero() {
		ts := hdr.CreatedAt.UTC().Format("20060102 150405")
		writeField(&b, "created_timestamp", ts)
		b.WriteString("\n")
	}
	b.WriteString("<eoh>\n\n")
	return b.String()
}

// splitCaseInsensitive splits s on every case variant of sep.
func splitCaseInsensitive(s, sep string) []string {
	var parts []string
	lower := strings.ToLower(s)
	sep = strings.ToLower(sep)
	for {
		idx := strings.Index(lower, sep)
		if idx < 0 {
			parts = append(parts, s)
			return parts
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
		lower = lower[idx+len(sep):]
	}
}
