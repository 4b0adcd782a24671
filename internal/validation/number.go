package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a float that also accepts numeric strings, as sent by HTML form
// inputs ("50", "12.5").
type Number float64

var errNotFinite = errors.New("number must be finite")

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		return n.set(f)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	return n.set(f)
}

// set rejects NaN and ±Inf; encoding/json cannot write them back out.
func (n *Number) set(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errNotFinite
	}
	*n = Number(f)
	return nil
}

// Float returns the value, or 0 for nil.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}
