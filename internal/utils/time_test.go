package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc != time.Local {
		t.Errorf("LoadLocation(\"\") = %v, %v; want time.Local", loc, err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("LoadLocation() should fail for an unknown zone")
	}
}

func TestResolveDay(t *testing.T) {
	d, err := ResolveDay("2026-02-03", "UTC")
	if err != nil {
		t.Fatalf("ResolveDay() error = %v", err)
	}
	if d.Day() != 3 || d.Month() != time.February {
		t.Errorf("ResolveDay() = %v", d)
	}
	if _, err := ResolveDay("03/02/2026", "UTC"); err == nil {
		t.Error("ResolveDay() should reject non-ISO dates")
	}
	if _, err := ResolveDay("", "UTC"); err != nil {
		t.Errorf("ResolveDay(\"\") error = %v", err)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 4, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("DaysBetween() = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Errorf("DaysBetween() reversed = %d, want -3", got)
	}
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC), time.UTC)
	if end.Sub(start) != 24*time.Hour || start.Hour() != 0 {
		t.Errorf("DayBounds() = %v, %v", start, end)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") || !ValidateTimezone("Europe/Madrid") {
		t.Error("expected valid timezones")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("expected invalid timezone")
	}
}
