package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeToMinutes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCombineDateAndTime(t *testing.T) {
	loc, err := time.LoadLocation("UTC")
	if err != nil {
		t.Fatalf("failed to load UTC: %v", err)
	}

	got, err := CombineDateAndTime("2026-03-02", "14:45", loc)
	if err != nil {
		t.Fatalf("CombineDateAndTime() unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 2, 14, 45, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime("2026-13-02", "14:45", loc); err == nil {
		t.Error("CombineDateAndTime() expected error for invalid month")
	}
	if _, err := CombineDateAndTime("2026-03-02", "25:00", loc); err == nil {
		t.Error("CombineDateAndTime() expected error for invalid hour")
	}
}

func TestAtMinutes(t *testing.T) {
	day := time.Date(2026, 3, 2, 15, 10, 0, 0, time.UTC)

	if got, want := AtMinutes(day, 0), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(0) = %v, want %v", got, want)
	}
	if got, want := AtMinutes(day, 570), time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(570) = %v, want %v", got, want)
	}
	if got, want := AtMinutes(day, 1440), time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("AtMinutes(1440) = %v, want %v", got, want)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("") || !ValidateTimezone("Local") || !ValidateTimezone("Europe/London") {
		t.Error("ValidateTimezone() rejected a valid timezone")
	}
	if ValidateTimezone("Mars/Olympus_Mons") {
		t.Error("ValidateTimezone() accepted an invalid timezone")
	}
}
