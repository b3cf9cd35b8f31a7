package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the deadline format used throughout the application.
const DateLayout = "2006-01-02"

// minDeadlineYear is the earliest year accepted from user input.
const minDeadlineYear = 2024

// Date is a deadline broken into its numeric fields.
//
// Arithmetic is deliberately simplified: every month has 30 days. Date is not a
// calendar and should not be converted to time.Time for comparisons.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads a "YYYY-MM-DD" string. It never fails: fields that cannot be
// read are left at zero and the remaining fields are not consumed.
func ParseDate(s string) Date {
	var d Date
	fields := []*int{&d.Year, &d.Month, &d.Day}

	pos := 0
	for i, field := range fields {
		if i > 0 {
			if pos >= len(s) || s[pos] != '-' {
				break
			}
			pos++
		}
		n, next, ok := scanInt(s, pos)
		if !ok {
			break
		}
		*field = n
		pos = next
	}

	return d
}

// scanInt reads an optionally signed decimal integer starting at pos, skipping
// leading spaces.
func scanInt(s string, pos int) (int, int, bool) {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}

	start := pos
	if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
		pos++
	}
	digits := pos
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		pos++
	}
	if pos == digits {
		return 0, start, false
	}

	n, err := strconv.Atoi(s[start:pos])
	if err != nil {
		return 0, start, false
	}
	return n, pos, true
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// String renders the date as zero-padded YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d sorts strictly before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays advances the date by n days using 30-day months. At most one month
// and one year rollover is applied.
func (d Date) AddDays(n int) Date {
	d.Day += n
	if d.Day > 30 {
		d.Month++
		d.Day -= 30
	}
	if d.Month > 12 {
		d.Year++
		d.Month = 1
	}
	return d
}

// ValidateDeadline checks user input before it reaches the task store: the
// string must be exactly YYYY-MM-DD with year >= 2024, month 1-12 and day 1-31.
func ValidateDeadline(s string) error {
	invalid := fmt.Errorf("%w: deadline must be a date in YYYY-MM-DD format", ErrInvalidArgument)

	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return invalid
	}

	year, err := parseDigits(s[0:4])
	if err != nil {
		return invalid
	}
	month, err := parseDigits(s[5:7])
	if err != nil {
		return invalid
	}
	day, err := parseDigits(s[8:10])
	if err != nil {
		return invalid
	}

	if year < minDeadlineYear {
		return fmt.Errorf("%w: deadline year must be %d or later", ErrInvalidArgument, minDeadlineYear)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return invalid
	}
	return nil
}

func parseDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	return strconv.Atoi(s)
}
