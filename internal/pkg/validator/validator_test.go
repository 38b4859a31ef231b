package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-01-15", "2024-12-31", "2000-02-29"}
	invalid := []string{"2024-13-01", "2024-01-32", "15-01-2024", "2024/01/15", "", "not-a-date"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"09:00:00", "23:59:59", "00:00:00"}
	invalid := []string{"24:00:00", "09:60:00", "9:00", "09:00", ""}
	for _, s := range valid {
		if !IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimezone(t *testing.T) {
	valid := []string{"Asia/Jakarta", "UTC", "America/New_York"}
	invalid := []string{"", "Mars/Olympus", "not a zone"}
	for _, s := range valid {
		if !IsValidTimezone(s) {
			t.Errorf("IsValidTimezone(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidTimezone(s) {
			t.Errorf("IsValidTimezone(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"present", "late", "absent"}
	if !IsInSlice("late", slice) {
		t.Error("IsInSlice(\"late\") = false, want true")
	}
	if IsInSlice("remote", slice) {
		t.Error("IsInSlice(\"remote\") = true, want false")
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "lat", Message: "out of range"},
		{Field: "photo", Message: "required"},
	}
	m := errs.ToMap()
	if m["lat"] != "out of range" || m["photo"] != "required" {
		t.Errorf("ToMap() = %v", m)
	}
	if errs.Error() != "lat: out of range; photo: required" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
