package submission

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxCount bounds Count so the conversion to int never overflows.
const maxCount = math.MaxInt32

// Count is a non-negative integer that the endpoint sends either as a
// JSON number or as a numeric string. Unparseable or out of range values are treated as absent.
type Count struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}

	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > maxCount {
		return nil
	}
	c.Value = int(f)
	c.Valid = true

	return nil
}

// Amount is a non-negative money value sent as a JSON number or numeric string.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}

	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil
	}
	a.Value = d
	a.Valid = true

	return nil
}

func resolveCount(canonical, alternate Count) int {
	if canonical.Valid {
		return canonical.Value
	}
	if alternate.Valid {
		return alternate.Value
	}

	return 0
}

func resolveAmount(canonical, alternate Amount) decimal.Decimal {
	if canonical.Valid {
		return canonical.Value
	}
	if alternate.Valid {
		return alternate.Value
	}

	return decimal.Zero
}
