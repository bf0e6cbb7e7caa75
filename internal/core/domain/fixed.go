package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FixedDigits is the number of decimal digits kept by Fixed.
const FixedDigits = 5

// FixedScale is 10^FixedDigits.
const FixedScale = 100000

var errFixedSyntax = errors.New("malformed decimal")

// Fixed is a decimal number stored as an integer scaled by FixedScale.
// Sums and differences are exact.
type Fixed int64

// FixedFromInt converts an integer to Fixed.
func FixedFromInt(v int64) Fixed {
	return Fixed(v * FixedScale)
}

// ParseFixed parses "-12", "12.5" or "0.00125". At most FixedDigits
// fractional digits are accepted.
func ParseFixed(s string) (Fixed, error) {
	if s == "" {
		return 0, errFixedSyntax
	}
	neg := false
	body := s
	if body[0] == '-' || body[0] == '+' {
		neg = body[0] == '-'
		body = body[1:]
	}
	intPart, fracPart, hasDot := strings.Cut(body, ".")
	if intPart == "" || (hasDot && fracPart == "") {
		return 0, errFixedSyntax
	}
	if len(fracPart) > FixedDigits {
		return 0, errors.New("too many fractional digits")
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, errFixedSyntax
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > math.MaxInt64/FixedScale-1 {
		return 0, errors.New("decimal out of range")
	}
	var frac int64
	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", FixedDigits-len(fracPart))
		frac, _ = strconv.ParseInt(padded, 10, 64)
	}
	v := whole*FixedScale + frac
	if neg {
		v = -v
	}
	return Fixed(v), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Add returns f + o.
func (f Fixed) Add(o Fixed) Fixed { return f + o }

// Sub returns f - o.
func (f Fixed) Sub(o Fixed) Fixed { return f - o }

// MulInt returns f * n.
func (f Fixed) MulInt(n int64) Fixed { return f * Fixed(n) }

// Abs returns |f|.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Sign returns -1, 0 or 1.
func (f Fixed) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}

// Int64 truncates toward zero.
func (f Fixed) Int64() int64 { return int64(f) / FixedScale }

// Float64 converts to float for display and ratios only.
func (f Fixed) Float64() float64 { return float64(f) / FixedScale }

// String renders the shortest exact decimal form.
func (f Fixed) String() string {
	v := int64(f)
	sign := ""
	u := uint64(v)
	if v < 0 {
		sign = "-"
		u = uint64(-v)
	}
	whole := u / FixedScale
	frac := u % FixedScale
	if frac == 0 {
		return sign + strconv.FormatUint(whole, 10)
	}
	fs := strconv.FormatUint(frac+FixedScale, 10)[1:]
	return sign + strconv.FormatUint(whole, 10) + "." + strings.TrimRight(fs, "0")
}

// MarshalJSON writes f as a JSON number literal.
func (f Fixed) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (f *Fixed) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*f = 0
		return nil
	}
	v, err := ParseFixed(s)
	if err != nil {
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		v = Fixed(math.Round(fv * FixedScale))
	}
	*f = v
	return nil
}
