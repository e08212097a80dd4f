package kdb1

import "fmt"

// DateTime is a broken-down KeePass 1.x timestamp, as stored in a 5-byte
// packed date field. It deliberately does not use time.Time: KeePass 1.x
// dates carry no timezone and their components (month 1-12, not 0-11) are
// validated independently of any calendar library.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// NeverExpires is the sentinel value KeePass 1.x uses for "does not expire".
var NeverExpires = DateTime{Year: 2999, Month: 12, Day: 28, Hour: 23, Minute: 59, Second: 59}

var daysInMonth = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Validate reports a BadDate error if any component is out of calendar
// range. February is always treated as 28 days, even in leap years,
// matching the original implementation's unconditional bound.
func (d DateTime) Validate() error {
	switch {
	case d.Year < 1 || d.Year > 9999:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("year %d out of range", d.Year))
	case d.Month < 1 || d.Month > 12:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("month %d out of range", d.Month))
	case d.Day < 1 || d.Day > daysInMonth[d.Month]:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("day %d out of range for month %d", d.Day, d.Month))
	case d.Hour < 0 || d.Hour > 23:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("hour %d out of range", d.Hour))
	case d.Minute < 0 || d.Minute > 59:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("minute %d out of range", d.Minute))
	case d.Second < 0 || d.Second > 59:
		return newError(KindBadDate, "DateTime.Validate", fmt.Errorf("second %d out of range", d.Second))
	}
	return nil
}

// UnpackDate decodes a 5-byte packed date field. The bit layout packs
// month's low two bits into the same byte as day and hour's top bit
// (b1/b2), not aligned to byte boundaries — a legacy quirk of the format,
// preserved here exactly so the result matches a reference KeePass 1.x
// file byte for byte.
func UnpackDate(b [5]byte) (DateTime, error) {
	d := DateTime{
		Year:   (int(b[0]) << 6) | (int(b[1]) >> 2),
		Month:  ((int(b[1]) & 0x03) << 2) | (int(b[2]) >> 6),
		Day:    (int(b[2]) >> 1) & 0x1F,
		Hour:   ((int(b[2]) & 0x01) << 4) | (int(b[3]) >> 4),
		Minute: ((int(b[3]) & 0x0F) << 2) | (int(b[4]) >> 6),
		Second: int(b[4]) & 0x3F,
	}
	if err := d.Validate(); err != nil {
		return DateTime{}, err
	}
	return d, nil
}

// PackDate encodes d into the 5-byte packed field layout UnpackDate reads.
func PackDate(d DateTime) ([5]byte, error) {
	if err := d.Validate(); err != nil {
		return [5]byte{}, err
	}
	var b [5]byte
	b[0] = byte(d.Year >> 6)
	b[1] = byte(((d.Year & 0x3F) << 2) | ((d.Month >> 2) & 0x03))
	b[2] = byte(((d.Month & 0x03) << 6) | ((d.Day & 0x1F) << 1) | ((d.Hour >> 4) & 0x01))
	b[3] = byte(((d.Hour & 0x0F) << 4) | ((d.Minute >> 2) & 0x0F))
	b[4] = byte(((d.Minute & 0x03) << 6) | (d.Second & 0x3F))
	return b, nil
}
