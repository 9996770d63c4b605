package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2024.01.15", New(2024, time.January, 15), false},
		{"2024.1.5", New(2024, time.January, 5), false},
		{"2024.12.31", New(2024, time.December, 31), false},
		{"2024-01-15", Date{}, true},
		{"2024.02.30", Date{}, true},
		{"", Date{}, true},
		{"INDEFINITE", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("Parse(%q) error = %v, want error %v", tt.input, err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := New(2024, time.March, 5).String(); got != "2024.03.05" {
		t.Errorf("String() = %q, want %q", got, "2024.03.05")
	}
}

func TestAddMonthClamped(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2024.01.15", 1, "2024.02.15"},
		{"2024.01.15", 2, "2024.03.15"},
		{"2024.01.31", 1, "2024.02.29"},
		{"2023.01.31", 1, "2023.02.28"},
		{"2024.01.31", 2, "2024.03.31"},
		{"2024.01.31", 3, "2024.04.30"},
		{"2024.08.31", 1, "2024.09.30"},
		{"2024.12.15", 1, "2025.01.15"},
		{"2024.11.30", 3, "2025.02.28"},
		{"2024.03.31", -1, "2024.02.29"},
		{"2024.05.10", 0, "2024.05.10"},
	}
	for _, tt := range tests {
		got := MustParse(tt.start).AddMonthClamped(tt.n)
		if got.String() != tt.want {
			t.Errorf("%s.AddMonthClamped(%d) = %s, want %s", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024.01.15", "2024.01.15", 0},
		{"2024.01.15", "2024.02.15", 31},
		{"2024.02.15", "2024.01.15", -31},
		{"2024.01.01", "2025.01.01", 366},
		{"2023.01.01", "2024.01.01", 365},
		{"1700.01.01", "2026.01.01", 119069},
		{"2026.01.01", "0224.01.15", -658154},
	}
	for _, tt := range tests {
		if got := MustParse(tt.from).DaysUntil(MustParse(tt.to)); got != tt.want {
			t.Errorf("%s.DaysUntil(%s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestYearsUntil(t *testing.T) {
	// 1461 days is exactly four interest years.
	got := MustParse("2020.01.01").YearsUntil(MustParse("2024.01.01"))
	if !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("YearsUntil() = %v, want 4", got)
	}
}

func TestBeforeAfter(t *testing.T) {
	a, b := MustParse("2024.01.15"), MustParse("2024.01.16")
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After are not consistent for %v and %v", a, b)
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, time.March, 19)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024.03.19"` {
		t.Errorf("Marshal() = %s, want %q", b, "2024.03.19")
	}
	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}
