package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Encode returns the JSON-compatible form of v: string, int, float64, bool,
// or nil for Blank. Instants encode through their display layout.
func (v Value) Encode() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return v.integer
	case KindFloat:
		return v.float
	case KindBoolean:
		return v.boolean
	case KindDate, KindMonth, KindTime:
		return v.Raw()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler using Encode.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Encode())
}

// FromAny converts a decoded JSON or YAML scalar into a value of the requested
// kind. Strings go through ParseAs; numbers and booleans convert when the kind
// accepts them. nil always yields Blank.
func FromAny(kind Kind, raw any) (Value, bool) {
	if raw == nil {
		return Value{}, true
	}
	switch typed := raw.(type) {
	case Value:
		return typed, true
	case string:
		return ParseAs(kind, typed)
	case bool:
		switch kind {
		case KindBoolean, KindBlank:
			return Bool(typed), true
		case KindText:
			return String(strconv.FormatBool(typed)), true
		}
		return Value{}, false
	case time.Time:
		switch kind {
		case KindDate:
			return Date(typed), true
		case KindMonth:
			return Month(typed), true
		case KindTime, KindBlank:
			return Time(typed), true
		case KindText:
			return String(typed.Format(time.RFC3339)), true
		}
		return Value{}, false
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return fromInt(kind, i)
		}
		f, err := typed.Float64()
		if err != nil {
			return Value{}, false
		}
		return fromNumber(kind, f)
	case int:
		return fromInt(kind, int64(typed))
	case int64:
		return fromInt(kind, typed)
	case int32:
		return fromInt(kind, int64(typed))
	case uint64:
		if typed > math.MaxInt64 {
			return fromNumber(kind, float64(typed))
		}
		return fromInt(kind, int64(typed))
	case float32:
		return fromNumber(kind, float64(typed))
	case float64:
		return fromNumber(kind, typed)
	default:
		return Value{}, false
	}
}

// fromInt converts an exact integer, refusing integer kinds it would
// overflow.
func fromInt(kind Kind, i int64) (Value, bool) {
	switch kind {
	case KindInteger, KindBlank:
		if i < math.MinInt || i > math.MaxInt {
			if kind == KindBlank {
				return Float(float64(i)), true
			}
			return Value{}, false
		}
		return Int(int(i)), true
	case KindFloat:
		return Float(float64(i)), true
	case KindText:
		return String(strconv.FormatInt(i, 10)), true
	default:
		return Value{}, false
	}
}

func fromNumber(kind Kind, f float64) (Value, bool) {
	switch kind {
	case KindInteger:
		if !wholeInt(f) {
			return Value{}, false
		}
		return Int(int(f)), true
	case KindFloat:
		return Float(f), true
	case KindBlank:
		if wholeInt(f) {
			return Int(int(f)), true
		}
		return Float(f), true
	case KindText:
		return String(strconv.FormatFloat(f, 'f', -1, 64)), true
	default:
		return Value{}, false
	}
}

// wholeInt reports whether f is a whole number int can hold.
func wholeInt(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt && f < -float64(math.MinInt)
}

// GoString helps %#v output in test failures.
func (v Value) GoString() string {
	if v.kind == KindBlank {
		return "value.Blank()"
	}
	return fmt.Sprintf("value.%s(%q)", v.kind, v.Raw())
}
