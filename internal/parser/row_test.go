package parser

import (
	"strings"
	"testing"
	"time"
)

func baseRecord() map[string]string {
	return map[string]string{
		"bus_id":    "B-12",
		"timestamp": "2024-05-01T08:30:00Z",
		"lat":       "55.75",
		"lon":       "37.61",
		"speed":     "32.4",
		"capacity":  "40",
		"weight":    "1500",
	}
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr bool
	}{
		{
			name:   "all required",
			fields: []string{"bus_id", "timestamp", "lat", "lon", "speed", "capacity", "weight"},
		},
		{
			name:   "extra columns ignored",
			fields: []string{"bus_id", "timestamp", "lat", "lon", "speed", "capacity", "weight", "stop_id", "junk"},
		},
		{
			name:   "whitespace trimmed",
			fields: []string{" bus_id ", "timestamp", "lat", "lon", "speed", "capacity", " weight"},
		},
		{
			name:    "missing weight",
			fields:  []string{"bus_id", "timestamp", "lat", "lon", "speed", "capacity"},
			wantErr: true,
		},
		{
			name:    "empty header",
			fields:  nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.fields)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHeader(%v) error = %v, wantErr %v", tt.fields, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHeaderNamesMissingColumns(t *testing.T) {
	err := ValidateHeader([]string{"bus_id", "timestamp", "lat", "lon", "speed", "capacity"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "weight") {
		t.Errorf("error %q does not name missing column weight", err.Error())
	}
}

func TestParseRowValid(t *testing.T) {
	row, rerr := ParseRow(baseRecord())
	if rerr != nil {
		t.Fatalf("unexpected row error: %v", rerr)
	}
	if row.BusID != "B-12" {
		t.Errorf("BusID = %q", row.BusID)
	}
	want := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	if !row.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", row.Timestamp, want)
	}
	if row.Capacity != 40 {
		t.Errorf("Capacity = %d, want 40", row.Capacity)
	}
	if row.WeightKg == nil || *row.WeightKg != 1500 {
		t.Errorf("WeightKg = %v, want 1500", row.WeightKg)
	}
	if row.StopID != "" || row.StopLat != nil {
		t.Errorf("expected no stop association, got %q %v", row.StopID, row.StopLat)
	}
}

func TestParseRowCapacityTruncated(t *testing.T) {
	rec := baseRecord()
	rec["capacity"] = "40.9"
	row, rerr := ParseRow(rec)
	if rerr != nil {
		t.Fatalf("unexpected row error: %v", rerr)
	}
	if row.Capacity != 40 {
		t.Errorf("Capacity = %d, want truncated 40", row.Capacity)
	}
}

func TestParseRowEmptyWeightIsLegal(t *testing.T) {
	rec := baseRecord()
	rec["weight"] = ""
	row, rerr := ParseRow(rec)
	if rerr != nil {
		t.Fatalf("unexpected row error: %v", rerr)
	}
	if row.WeightKg != nil {
		t.Errorf("WeightKg = %v, want nil", row.WeightKg)
	}
}

func TestParseRowErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]string)
		wantKind string
	}{
		{"empty bus_id", func(r map[string]string) { r["bus_id"] = "   " }, KindMissingValue},
		{"empty timestamp", func(r map[string]string) { r["timestamp"] = "" }, KindMissingValue},
		{"garbage timestamp", func(r map[string]string) { r["timestamp"] = "yesterday" }, KindBadTimestamp},
		{"bad lat", func(r map[string]string) { r["lat"] = "abc" }, KindBadField},
		{"bad lon", func(r map[string]string) { r["lon"] = "" }, KindBadField},
		{"bad speed", func(r map[string]string) { r["speed"] = "fast" }, KindBadField},
		{"bad capacity", func(r map[string]string) { r["capacity"] = "forty" }, KindBadField},
		{"bad weight", func(r map[string]string) { r["weight"] = "heavy" }, KindBadField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(rec)
			row, rerr := ParseRow(rec)
			if rerr == nil {
				t.Fatalf("expected error, got row %+v", row)
			}
			if rerr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", rerr.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseRowTimestampFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-05-01T08:30:00Z", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-05-01T08:30:00+03:00", time.Date(2024, 5, 1, 5, 30, 0, 0, time.UTC)},
		{"2024-05-01T08:30:00", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-05-01 08:30:00", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"1714552200", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		rec := baseRecord()
		rec["timestamp"] = tt.raw
		row, rerr := ParseRow(rec)
		if rerr != nil {
			t.Errorf("ParseRow timestamp %q: unexpected error %v", tt.raw, rerr)
			continue
		}
		if !row.Timestamp.Equal(tt.want) {
			t.Errorf("timestamp %q parsed to %v, want %v", tt.raw, row.Timestamp, tt.want)
		}
	}
}

func TestParseRowStopFields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]string)
		wantStopID string
		wantName   string
		wantCoords bool
	}{
		{
			name: "full stop info",
			mutate: func(r map[string]string) {
				r["stop_id"] = "S1"
				r["stop_name"] = "Central"
				r["stop_lat"] = "55.70"
				r["stop_lon"] = "37.60"
			},
			wantStopID: "S1", wantName: "Central", wantCoords: true,
		},
		{
			name: "name defaults to stop_id",
			mutate: func(r map[string]string) {
				r["stop_id"] = "S2"
			},
			wantStopID: "S2", wantName: "S2", wantCoords: false,
		},
		{
			name: "single coordinate dropped",
			mutate: func(r map[string]string) {
				r["stop_id"] = "S3"
				r["stop_lat"] = "55.70"
			},
			wantStopID: "S3", wantName: "S3", wantCoords: false,
		},
		{
			name: "garbage coordinates dropped",
			mutate: func(r map[string]string) {
				r["stop_id"] = "S4"
				r["stop_lat"] = "x"
				r["stop_lon"] = "y"
			},
			wantStopID: "S4", wantName: "S4", wantCoords: false,
		},
		{
			name:       "no stop at all",
			mutate:     func(r map[string]string) {},
			wantStopID: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(rec)
			row, rerr := ParseRow(rec)
			if rerr != nil {
				t.Fatalf("unexpected error: %v", rerr)
			}
			if row.StopID != tt.wantStopID {
				t.Errorf("StopID = %q, want %q", row.StopID, tt.wantStopID)
			}
			if row.StopName != tt.wantName {
				t.Errorf("StopName = %q, want %q", row.StopName, tt.wantName)
			}
			if (row.StopLat != nil && row.StopLon != nil) != tt.wantCoords {
				t.Errorf("coords present = %v, want %v", row.StopLat != nil, tt.wantCoords)
			}
		})
	}
}
