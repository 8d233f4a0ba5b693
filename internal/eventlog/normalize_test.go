package eventlog

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		missing string
	}{
		{"no case column", []string{"EVENT", "START TIME"}, "CASE ID"},
		{"no activity column", []string{"CASE ID", "START TIME"}, "EVENT"},
		{"no start column", []string{"CASE ID", "EVENT"}, "START TIME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.header, nil, DefaultOptions())
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected SchemaError, got %v", err)
			}
			if schemaErr.Column != tt.missing {
				t.Errorf("Expected missing column %q, got %q", tt.missing, schemaErr.Column)
			}
		})
	}
}

func TestNormalizeDerivesDuration(t *testing.T) {
	header := []string{"CASE ID", "EVENT", "START TIME", "END TIME"}
	records := [][]string{
		{"C1", "Receive Order", "2024-03-01 08:00:00", "2024-03-01 08:30:00"},
		{"C1", "Check Stock", "2024-03-01 08:30:00", "garbage"},
		{"C1", "Ship Order", "2024-03-01 09:00:00", "2024-03-01 08:00:00"}, // negative span
	}

	log, err := Normalize(header, records, DefaultOptions())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(log) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(log))
	}

	if log[0].Duration == nil || *log[0].Duration != 30.0 {
		t.Errorf("Expected 30 minute duration, got %v", log[0].Duration)
	}
	if log[1].Duration != nil || log[1].End != nil {
		t.Errorf("Unparseable end must leave End and Duration nil, got %v / %v", log[1].End, log[1].Duration)
	}
	if log[2].Duration != nil {
		t.Errorf("Negative span must be treated as missing, got %v", *log[2].Duration)
	}
	if log[2].End == nil {
		t.Errorf("End timestamp itself should survive a negative span")
	}
}

func TestNormalizeDropsUnplaceableRows(t *testing.T) {
	header := []string{"CASE ID", "EVENT", "START TIME"}
	records := [][]string{
		{"  C1  ", "Receive Order", "2024-03-01 08:00:00"},
		{"", "Check Stock", "2024-03-01 08:10:00"},
		{"C1", "   ", "2024-03-01 08:20:00"},
		{"C1", "Ship Order", "not a timestamp"},
		{"C2", "Receive Order"}, // short record
	}

	log, err := Normalize(header, records, DefaultOptions())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("Expected only the valid row to survive, got %d rows", len(log))
	}
	if log[0].CaseID != "C1" {
		t.Errorf("Case id must be trimmed, got %q", log[0].CaseID)
	}
}

func TestNormalizeWithoutEndColumn(t *testing.T) {
	header := []string{"case id", "event", "start time", "team"}
	records := [][]string{
		{"C1", "Receive Order", "2024-03-01T08:00:00", "Sales"},
	}

	log, err := Normalize(header, records, DefaultOptions())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if log[0].End != nil || log[0].Duration != nil {
		t.Errorf("Missing end column must leave End and Duration nil")
	}
	if log[0].Team != "Sales" {
		t.Errorf("Expected team dimension, got %q", log[0].Team)
	}
}

func TestNormalizeCustomColumns(t *testing.T) {
	opts := Options{
		CaseColumn:     "order_id",
		ActivityColumn: "step",
		StartColumn:    "begun",
	}
	header := []string{"ORDER_ID", "Step", "Begun"}
	records := [][]string{{"A-7", "Pack", "2024-03-01 10:00:00"}}

	log, err := Normalize(header, records, opts)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(log) != 1 || log[0].CaseID != "A-7" || log[0].Activity != "Pack" {
		t.Errorf("Case-insensitive column matching failed: %+v", log)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-01 08:15:00", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), true},
		{"2024-03-01T08:15:00Z", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), true},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"01/03/2024 08:15:00", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"soon", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
