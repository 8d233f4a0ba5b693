package eventlog

import (
	"fmt"
	"strings"
	"time"
)

// Options maps raw table columns onto the canonical schema. Column matching is
// case-insensitive. Case, Activity and Start are required; the rest degrade to
// absent dimensions when the column is not present.
type Options struct {
	CaseColumn     string
	ActivityColumn string
	StartColumn    string
	EndColumn      string
	TeamColumn     string
	SystemColumn   string
	UserColumn     string
}

// DefaultOptions returns the column names used by the standard export format.
func DefaultOptions() Options {
	return Options{
		CaseColumn:     "CASE ID",
		ActivityColumn: "EVENT",
		StartColumn:    "START TIME",
		EndColumn:      "END TIME",
		TeamColumn:     "TEAM",
		SystemColumn:   "SYSTEM",
		UserColumn:     "USER",
	}
}

// SchemaError reports a structurally required column missing from the input.
// It is the only hard failure normalization produces; bad values inside rows
// degrade to missing fields instead.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("event log is missing required column %q", e.Column)
}

// Common timestamp layouts ordered by likelihood.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseTimestamp parses a textual timestamp against the known layouts.
// The second return is false when no layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize converts a raw table (header row plus records) into the canonical
// event log. Rows with an empty case id, empty activity, or an unparseable
// start time are dropped: an event that cannot be placed on the timeline has
// no position in any trace. An unparseable or missing end time leaves End and
// Duration nil. A negative span also leaves Duration nil; it is treated as
// missing, not clamped.
//
// The only error is a *SchemaError for an absent required column.
func Normalize(header []string, records [][]string, opts Options) (EventLog, error) {
	caseIdx, ok := findColumn(header, opts.CaseColumn)
	if !ok {
		return nil, &SchemaError{Column: opts.CaseColumn}
	}
	actIdx, ok := findColumn(header, opts.ActivityColumn)
	if !ok {
		return nil, &SchemaError{Column: opts.ActivityColumn}
	}
	startIdx, ok := findColumn(header, opts.StartColumn)
	if !ok {
		return nil, &SchemaError{Column: opts.StartColumn}
	}

	endIdx, hasEnd := findColumn(header, opts.EndColumn)
	teamIdx, hasTeam := findColumn(header, opts.TeamColumn)
	systemIdx, hasSystem := findColumn(header, opts.SystemColumn)
	userIdx, hasUser := findColumn(header, opts.UserColumn)

	log := make(EventLog, 0, len(records))
	for _, rec := range records {
		caseID := strings.TrimSpace(field(rec, caseIdx))
		activity := strings.TrimSpace(field(rec, actIdx))
		if caseID == "" || activity == "" {
			continue
		}

		start, ok := ParseTimestamp(field(rec, startIdx))
		if !ok {
			continue
		}

		row := EventRow{
			CaseID:   caseID,
			Activity: activity,
			Start:    start,
		}

		if hasEnd {
			if end, ok := ParseTimestamp(field(rec, endIdx)); ok {
				row.End = &end
				if mins := end.Sub(start).Minutes(); mins >= 0 {
					row.Duration = &mins
				}
			}
		}
		if hasTeam {
			row.Team = strings.TrimSpace(field(rec, teamIdx))
		}
		if hasSystem {
			row.System = strings.TrimSpace(field(rec, systemIdx))
		}
		if hasUser {
			row.User = strings.TrimSpace(field(rec, userIdx))
		}

		log = append(log, row)
	}

	return log, nil
}

func findColumn(header []string, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return 0, false
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
