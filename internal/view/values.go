package view

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// numericValue coerces v to a float64. It reports false for missing values
// and for values that do not read as a number.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateValue resolves v to a point in time. Missing values (nil or blank)
// report present=false without an error. Values that are present but do not
// parse return an error wrapping ErrInvalidDateValue.
//
// Numbers are read as Unix milliseconds.
func dateValue(field string, v any) (t time.Time, present bool, err error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return x, true, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, false, nil
		}
		return *x, true, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false, nil
		}
		parsed, perr := dateparse.ParseIn(s, time.UTC)
		if perr != nil {
			return time.Time{}, true, dateError(field, v)
		}
		return parsed, true, nil
	}

	if f, ok := numericValue(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, true, dateError(field, v)
		}
		return time.UnixMilli(int64(f)).UTC(), true, nil
	}
	return time.Time{}, true, dateError(field, v)
}

// stringValue renders v as the raw string used for comparison.
func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}
