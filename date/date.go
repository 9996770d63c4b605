package date

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const readDateFormat = "2006.1.2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates in ledger source and output.
const DateFormat = "2006.01.02" // write date format

// secondsPerDay is the length of a UTC day, without leap seconds.
const secondsPerDay = 24 * 60 * 60

// daysPerYear is the length of the interest year.
var daysPerYear = decimal.RequireFromString("365.25")

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the day of t, in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return Of(time.Now()) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// AddMonthClamped returns the same day of the month, i months later.
// When the target month is too short the day is clamped to its last day, it
// never rolls over into the following month: 2024.01.31 + 1 is 2024.02.29.
func (d Date) AddMonthClamped(i int) Date {
	first := New(d.y, d.m+time.Month(i), 1)
	last := New(first.y, first.m+1, 0).d
	return Date{first.y, first.m, min(d.d, last)}
}

// DaysUntil returns the exact number of calendar days from d to x.
// It is negative when x is before d.
func (d Date) DaysUntil(x Date) int {
	// Unix seconds, time.Duration saturates after 292 years.
	return int((x.time().Unix() - d.time().Unix()) / secondsPerDay)
}

// YearsUntil returns the number of years from d to x, counting 365.25 days per year.
func (d Date) YearsUntil(x Date) decimal.Decimal {
	return decimal.NewFromInt(int64(d.DaysUntil(x))).Div(daysPerYear)
}

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format returns a textual representation of the date according to layout, see [time.Time.Format].
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025.7.1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	// We use a slightly more permisive format for read, to support 2025.7.1 instead of 2025.07.01
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
