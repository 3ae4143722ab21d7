package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that also decodes from a numeric JSON string, which is
// how form inputs arrive from the mini-program. An empty string decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("number: %w", err)
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("number: invalid value %q", s)
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON accepts the bounds as numbers or numeric strings.
func (r *BudgetRange) UnmarshalJSON(b []byte) error {
	var raw struct {
		Min Number `json:"min"`
		Max Number `json:"max"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Min, r.Max = raw.Min.Float(), raw.Max.Float()
	return nil
}
