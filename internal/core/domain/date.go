package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errDateSyntax = errors.New("malformed date")

// Date is an in-game calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses "2250.3.15" or "2250.03.15".
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Date{}, errDateSyntax
	}
	var vals [3]int
	for i, p := range parts {
		if p == "" || !allDigits(p) || len(p) > 6 {
			return Date{}, errDateSyntax
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, errDateSyntax
		}
		vals[i] = v
	}
	if vals[1] > 12 || vals[2] > 31 {
		return Date{}, errDateSyntax
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == Date{} }

// String renders "YYYY.MM.DD".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d.%02d.%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MarshalJSON writes the date as a string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON reads a date string; the empty string is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
