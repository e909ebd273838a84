package medication

import (
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		want     []TimeOfDay
	}{
		{"two slots", "08:00, 20:00", []TimeOfDay{{8, 0}, {20, 0}}},
		{"no spaces", "08:00,20:00", []TimeOfDay{{8, 0}, {20, 0}}},
		{"single slot", "12:30", []TimeOfDay{{12, 30}}},
		{"empty string", "", nil},
		{"only commas", ",,,", nil},
		{"trailing comma", "09:15,", []TimeOfDay{{9, 15}}},
		{"malformed entry dropped", "08:00, banana, 20:00", []TimeOfDay{{8, 0}, {20, 0}}},
		{"out of range dropped", "25:00, 20:00", []TimeOfDay{{20, 0}}},
		{"all malformed", "abc, def", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSchedule(tt.schedule)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d slots, got %d (%v)", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestTimeOfDay_At(t *testing.T) {
	date := time.Date(2025, 3, 14, 17, 45, 12, 0, time.UTC)
	slot := TimeOfDay{Hour: 8, Minute: 30}

	got := slot.At(date)
	want := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
