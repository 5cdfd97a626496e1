package dbrepo

import (
	"database/sql/driver"
	"fmt"
	"math"
	r "reflect"
	"strconv"
	"time"

	"github.com/mitranim/refut"
)

// Layout of date-time literals accepted by all supported engines.
const TimestampLayout = `2006-01-02 15:04:05`

// Formats a time as a date-time literal text, without quotes.
func DbTimestamp(val time.Time) string { return val.Format(TimestampLayout) }

/*
Converts a Go value into SQL literal text:

	int, uint, float kinds  ->  unquoted number
	bool                    ->  1 or 0
	nil, typed nil          ->  NULL
	time.Time               ->  quoted "2006-01-02 15:04:05"
	anything else           ->  string quoted by the dialect

Values implementing `driver.Valuer` are converted via `.Value()` first, and a
valuer that fails counts as NULL. Non-nil pointers are dereferenced.
*/
func Quote(dia Dialect, val any) string {
	val = norm(val)

	switch val := val.(type) {
	case nil:
		return `NULL`
	case bool:
		if val {
			return `1`
		}
		return `0`
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case time.Time:
		return dia.QuoteString(DbTimestamp(val))
	case []byte:
		return dia.QuoteString(string(val))
	case string:
		return dia.QuoteString(val)
	default:
		return quoteKind(dia, val)
	}
}

// Named types such as `type Status int` keep the literal form of their kind.
func quoteKind(dia Dialect, val any) string {
	rval := r.ValueOf(val)

	switch rval.Kind() {
	case r.Int, r.Int8, r.Int16, r.Int32, r.Int64:
		return strconv.FormatInt(rval.Int(), 10)
	case r.Uint, r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uintptr:
		return strconv.FormatUint(rval.Uint(), 10)
	case r.Float32:
		return formatFloat(rval.Float(), 32)
	case r.Float64:
		return formatFloat(rval.Float(), 64)
	case r.Bool:
		return Quote(dia, rval.Bool())
	case r.String:
		return dia.QuoteString(rval.String())
	default:
		return dia.QuoteString(fmt.Sprint(val))
	}
}

// NaN and infinities have no numeric literal form.
func formatFloat(val float64, size int) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return `NULL`
	}
	return strconv.FormatFloat(val, 'f', -1, size)
}

func norm(val any) any {
	if val == nil || refut.IsNil(val) {
		return nil
	}

	valuer, _ := val.(driver.Valuer)
	if valuer != nil {
		out, err := valuer.Value()
		if err != nil {
			return nil
		}
		return normNil(out)
	}

	rval := r.ValueOf(val)
	if rval.Kind() == r.Ptr {
		return norm(rval.Elem().Interface())
	}
	return val
}

func normNil(val any) any {
	if val == nil || refut.IsNil(val) {
		return nil
	}
	return val
}
