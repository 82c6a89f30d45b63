// Package rtdate implements the runtime's Date/Time arithmetic: a
// Date is a signed day count since the Unix epoch, a Time a
// millisecond count since the same epoch, with month-end-clamping
// arithmetic and an ISO/English/custom-pattern renderer.
//
// Calendar normalization (leap years, month lengths, weekday/month
// names) is delegated to the standard library's time package rather
// than hand-rolled; github.com/ncruces/go-strftime is wired in as a
// Strftime convenience alongside the custom Format tokenizer.
package rtdate

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// Date is the number of days since 1970-01-01.
type Date int64

// Time is the number of milliseconds since 1970-01-01.
type Time int64

const secondsPerDay = 86400

func toTime(d Date) time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func fromYMDRaw(y, m, day int) Date {
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	return Date(t.Unix() / secondsPerDay)
}

// IsLeapYear reports (y%4==0 && y%100!=0) || y%400==0.
func IsLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// DaysInMonth returns the day count for (y, m); out-of-range months
// return 0 as a sentinel, not an error.
func DaysInMonth(y, m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(y) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// IsValidYMD validates year, month in [1,12], day in
// [1, DaysInMonth(y, m)].
func IsValidYMD(y, m, d int) bool {
	dim := DaysInMonth(y, m)
	return dim > 0 && d >= 1 && d <= dim
}

// FromYMD constructs a Date from a calendar date. An invalid date is a
// fatal runtime invariant violation: the caller is
// expected to validate with IsValidYMD first, and this panics rather
// than returning a degraded value.
func FromYMD(y, m, d int) Date {
	if !IsValidYMD(y, m, d) {
		panic(fmt.Sprintf("rtdate: invalid date %04d-%02d-%02d", y, m, d))
	}
	return fromYMDRaw(y, m, d)
}

// FromEpochDays wraps a raw day count as a Date.
func FromEpochDays(n int64) Date { return Date(n) }

// EpochDays returns the raw day count.
func (d Date) EpochDays() int64 { return int64(d) }

// ToYMD decomposes d into its calendar year, month and day.
func (d Date) ToYMD() (year, month, day int) {
	t := toTime(d)
	y, m, dd := t.Date()
	return y, int(m), dd
}

// FromISO parses a "YYYY-MM-DD" string.
func FromISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("rtdate: invalid ISO date %q: %w", s, err)
	}
	return Date(t.Unix() / secondsPerDay), nil
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int64) Date { return d + Date(n) }

// AddWeeks is AddDays(n*7).
func (d Date) AddWeeks(n int64) Date { return d.AddDays(n * 7) }

// clampedAdd adds dy years and dm months, then clamps the day to the
// last valid day of the resulting month: Feb 29 plus one year lands on
// Feb 28 when the destination year is not a leap year.
func (d Date) clampedAdd(dy, dm int) Date {
	y, m, day := d.ToYMD()
	total := (m - 1) + dm
	y += dy + total/12
	m = total%12 + 1
	if m <= 0 {
		m += 12
		y--
	}
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	return fromYMDRaw(y, m, day)
}

// AddMonths adds n months with month-end clamping.
func (d Date) AddMonths(n int) Date { return d.clampedAdd(0, n) }

// AddYears adds n years with month-end clamping.
func (d Date) AddYears(n int) Date { return d.clampedAdd(n, 0) }

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	y, m, _ := d.ToYMD()
	return fromYMDRaw(y, m, 1)
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	y, m, _ := d.ToYMD()
	return fromYMDRaw(y, m, DaysInMonth(y, m))
}

// StartOfYear returns January 1 of d's year.
func (d Date) StartOfYear() Date {
	y, _, _ := d.ToYMD()
	return fromYMDRaw(y, 1, 1)
}

// EndOfYear returns December 31 of d's year.
func (d Date) EndOfYear() Date {
	y, _, _ := d.ToYMD()
	return fromYMDRaw(y, 12, 31)
}

// DiffDays returns a - b in days; symmetric: DiffDays(a,b) ==
// -DiffDays(b,a).
func DiffDays(a, b Date) int64 {
	return int64(a) - int64(b)
}

var monthNames = [...]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// ToISO renders "YYYY-MM-DD" with zero-padded month/day.
func (d Date) ToISO() string {
	y, m, day := d.ToYMD()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

// ToStringHuman renders "Month D, YYYY" using English month names.
func (d Date) ToStringHuman() string {
	y, m, day := d.ToYMD()
	return fmt.Sprintf("%s %d, %d", monthNames[m-1], day, y)
}

// Format tokenizes pattern against YYYY/YY/MM/M/DD/D/MMM/MMMM/ddd/dddd,
// matching the longest token first at each position.
func (d Date) Format(pattern string) string {
	y, m, day := d.ToYMD()
	t := toTime(d)
	tokens := []struct {
		tok string
		val string
	}{
		{"YYYY", fmt.Sprintf("%04d", y)},
		{"MMMM", monthNames[m-1]},
		{"MMM", monthNames[m-1][:3]},
		{"dddd", t.Weekday().String()},
		{"ddd", t.Weekday().String()[:3]},
		{"YY", fmt.Sprintf("%02d", y%100)},
		{"MM", fmt.Sprintf("%02d", m)},
		{"DD", fmt.Sprintf("%02d", day)},
		{"M", fmt.Sprintf("%d", m)},
		{"D", fmt.Sprintf("%d", day)},
	}
	var out []byte
	for i := 0; i < len(pattern); {
		matched := false
		for _, tk := range tokens {
			if i+len(tk.tok) <= len(pattern) && pattern[i:i+len(tk.tok)] == tk.tok {
				out = append(out, tk.val...)
				i += len(tk.tok)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, pattern[i])
			i++
		}
	}
	return string(out)
}

// Strftime renders d using a POSIX strftime layout via
// github.com/ncruces/go-strftime, a debug-log convenience alongside
// Format above.
func (d Date) Strftime(layout string) (string, error) {
	return strftime.Format(layout, toTime(d)), nil
}

// NowTime returns the current time as milliseconds since the epoch.
func NowTime() Time {
	return Time(time.Now().UnixMilli())
}

// ToDate truncates a Time to the Date containing it.
func (t Time) ToDate() Date {
	const msPerDay = 1000 * secondsPerDay
	days := int64(t) / msPerDay
	if int64(t)%msPerDay < 0 {
		days--
	}
	return Date(days)
}
