package kdb1

import (
	"errors"
	"testing"
)

func TestDateRoundTrip(t *testing.T) {
	cases := []DateTime{
		NeverExpires,
		{Year: 1, Month: 1, Day: 1, Hour: 0, Minute: 0, Second: 0},
		{Year: 9999, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59},
		{Year: 2012, Month: 7, Day: 15, Hour: 10, Minute: 30, Second: 45},
		{Year: 2024, Month: 2, Day: 28, Hour: 23, Minute: 1, Second: 2},
	}
	for _, c := range cases {
		packed, err := PackDate(c)
		if err != nil {
			t.Fatalf("PackDate(%+v): %v", c, err)
		}
		got, err := UnpackDate(packed)
		if err != nil {
			t.Fatalf("UnpackDate(%v): %v", packed, err)
		}
		if got != c {
			t.Errorf("round trip mismatch: packed %v, got %+v, want %+v", packed, got, c)
		}
	}
}

func TestDateRoundTripExhaustiveMonthHour(t *testing.T) {
	// The packed layout interleaves month's low bits with day and hour's
	// top bit within the same byte; exercise every (month, hour) pair to
	// make sure the encoding never collides across the full range.
	for month := 1; month <= 12; month++ {
		for hour := 0; hour <= 23; hour++ {
			d := DateTime{Year: 2000, Month: month, Day: 1, Hour: hour, Minute: 0, Second: 0}
			packed, err := PackDate(d)
			if err != nil {
				t.Fatalf("PackDate(%+v): %v", d, err)
			}
			got, err := UnpackDate(packed)
			if err != nil {
				t.Fatalf("UnpackDate(%v): %v", packed, err)
			}
			if got != d {
				t.Errorf("month=%d hour=%d: got %+v, want %+v", month, hour, got, d)
			}
		}
	}
}

// TestDateBitLayoutInterop applies the documented unpack bit formula
// directly, independently of UnpackDate, to PackDate's output for
// NeverExpires, so an accidental "fix" of the legacy (non-byte-aligned)
// layout in PackDate is caught even if UnpackDate were changed to match
// it and the two still round-trip with each other.
func TestDateBitLayoutInterop(t *testing.T) {
	packed, err := PackDate(NeverExpires)
	if err != nil {
		t.Fatalf("PackDate(NeverExpires): %v", err)
	}

	year := (int(packed[0]) << 6) | (int(packed[1]) >> 2)
	month := ((int(packed[1]) & 0x03) << 2) | (int(packed[2]) >> 6)
	day := (int(packed[2]) >> 1) & 0x1F
	hour := ((int(packed[2]) & 0x01) << 4) | (int(packed[3]) >> 4)
	minute := ((int(packed[3]) & 0x0F) << 2) | (int(packed[4]) >> 6)
	second := int(packed[4]) & 0x3F

	want := NeverExpires
	if year != want.Year || month != want.Month || day != want.Day ||
		hour != want.Hour || minute != want.Minute || second != want.Second {
		t.Fatalf("bit layout drifted: got (%d,%d,%d,%d,%d,%d), want (%d,%d,%d,%d,%d,%d)",
			year, month, day, hour, minute, second,
			want.Year, want.Month, want.Day, want.Hour, want.Minute, want.Second)
	}
}

func TestDateValidateRejectsOutOfRange(t *testing.T) {
	cases := []DateTime{
		{Year: 0, Month: 1, Day: 1},
		{Year: 2000, Month: 13, Day: 1},
		{Year: 2000, Month: 2, Day: 29}, // always rejected, even in a leap year
		{Year: 2000, Month: 4, Day: 31}, // April has 30 days
		{Year: 2000, Month: 1, Day: 1, Hour: 24},
		{Year: 2000, Month: 1, Day: 1, Minute: 60},
		{Year: 2000, Month: 1, Day: 1, Second: 60},
	}
	for _, c := range cases {
		_, err := PackDate(c)
		if err == nil {
			t.Errorf("PackDate(%+v): expected BadDate, got nil", c)
			continue
		}
		var kerr *Error
		if !errors.As(err, &kerr) || kerr.Kind != KindBadDate {
			t.Errorf("PackDate(%+v): expected KindBadDate, got %v", c, err)
		}
	}
}

func TestDateFebruaryLeapYearBugPreserved(t *testing.T) {
	// 2000 was a leap year; the original validator still rejects Feb 29.
	_, err := PackDate(DateTime{Year: 2000, Month: 2, Day: 29, Hour: 0, Minute: 0, Second: 0})
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate for 2000-02-29, got %v", err)
	}
}
