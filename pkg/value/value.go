// Package value defines the scalar representation stored on every form node.
// A Value is a closed sum over text, integer, float, boolean, date, month,
// local datetime and blank. The zero Value is Blank. Accessors never fail
// loudly: asking for the wrong variant reports ok=false.
package value

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindBlank Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindMonth
	KindTime
)

// Display layouts used by Raw and ParseAs. They match the formats produced
// by HTML date, month and datetime-local inputs.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	TimeLayout  = "2006-01-02T15:04"
)

var kindNames = map[Kind]string{
	KindBlank:   "blank",
	KindText:    "text",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBoolean: "boolean",
	KindDate:    "date",
	KindMonth:   "month",
	KindTime:    "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable scalar. Compare values with Equal, not ==, since
// instants carry a location.
type Value struct {
	kind    Kind
	text    string
	integer int
	float   float64
	boolean bool
	instant time.Time
}

// Blank returns the empty value.
func Blank() Value { return Value{} }

// String wraps text. Empty or whitespace-only input normalises to Blank.
func String(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Int wraps an integer.
func Int(i int) Value { return Value{kind: KindInteger, integer: i} }

// Float wraps a float. NaN is not representable and becomes Blank.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, float: f}
}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// Date keeps the calendar day of t, in UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, instant: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Month keeps the year and month of t, in UTC.
func Month(t time.Time) Value {
	y, m, _ := t.Date()
	return Value{kind: KindMonth, instant: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)}
}

// Time wraps a local datetime truncated to the minute.
func Time(t time.Time) Value {
	return Value{kind: KindTime, instant: t.Truncate(time.Minute)}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsBlank reports whether v is the Blank variant.
func (v Value) IsBlank() bool { return v.kind == KindBlank }

// ToString returns the text payload of a Text value.
func (v Value) ToString() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// ToInt returns the payload of an Integer value.
func (v Value) ToInt() (int, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

// ToFloat returns the payload of a Float value. Integers widen losslessly.
func (v Value) ToFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.float, true
	case KindInteger:
		return float64(v.integer), true
	default:
		return 0, false
	}
}

// ToBool returns the payload of a Boolean value.
func (v Value) ToBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// ToTime returns the instant held by Date, Month and Time values.
func (v Value) ToTime() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindMonth, KindTime:
		return v.instant, true
	default:
		return time.Time{}, false
	}
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBlank:
		return true
	case KindText:
		return v.text == other.text
	case KindInteger:
		return v.integer == other.integer
	case KindFloat:
		return v.float == other.float
	case KindBoolean:
		return v.boolean == other.boolean
	default:
		return v.instant.Equal(other.instant)
	}
}

// Compare orders two values of the same variant. Integers and floats compare
// numerically with each other. ok is false for any other pairing, including
// Blank on either side, which callers treat as "no constraint".
func Compare(a, b Value) (int, bool) {
	if a.kind == KindBlank || b.kind == KindBlank {
		return 0, false
	}
	if isNumeric(a.kind) && isNumeric(b.kind) {
		if a.kind == KindInteger && b.kind == KindInteger {
			return compareOrdered(a.integer, b.integer), true
		}
		af, _ := a.ToFloat()
		bf, _ := b.ToFloat()
		return compareOrdered(af, bf), true
	}
	if a.kind != b.kind {
		return 0, false
	}
	switch a.kind {
	case KindText:
		return strings.Compare(a.text, b.text), true
	case KindBoolean:
		switch {
		case a.boolean == b.boolean:
			return 0, true
		case !a.boolean:
			return -1, true
		default:
			return 1, true
		}
	default:
		return a.instant.Compare(b.instant), true
	}
}

func isNumeric(k Kind) bool { return k == KindInteger || k == KindFloat }

func compareOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Raw renders the display string an input element would show.
func (v Value) Raw() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return strconv.Itoa(v.integer)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	case KindDate:
		return v.instant.Format(DateLayout)
	case KindMonth:
		return v.instant.Format(MonthLayout)
	case KindTime:
		return v.instant.Format(TimeLayout)
	default:
		return ""
	}
}

// String implements fmt.Stringer with the display string.
func (v Value) String() string { return v.Raw() }

// ParseAs converts a display string into a value of the requested kind.
// Blank input always yields Blank with ok=true. A string that cannot be read
// as kind yields Blank with ok=false.
func ParseAs(kind Kind, raw string) (Value, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}, true
	}
	switch kind {
	case KindText, KindBlank:
		return String(raw), true
	case KindInteger:
		i, err := strconv.Atoi(trimmed)
		if err != nil {
			return Value{}, false
		}
		return Int(i), true
	case KindFloat:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return Value{}, false
		}
		return Float(f), true
	case KindBoolean:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return Value{}, false
		}
		return Bool(b), true
	case KindDate:
		t, err := time.Parse(DateLayout, trimmed)
		if err != nil {
			return Value{}, false
		}
		return Date(t), true
	case KindMonth:
		t, err := time.Parse(MonthLayout, trimmed)
		if err != nil {
			return Value{}, false
		}
		return Month(t), true
	case KindTime:
		t, err := parseLocalDatetime(trimmed)
		if err != nil {
			return Value{}, false
		}
		return Time(t), true
	default:
		return Value{}, false
	}
}

func parseLocalDatetime(raw string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, raw)
	if err == nil {
		return t, nil
	}
	if withSeconds, secErr := time.Parse("2006-01-02T15:04:05", raw); secErr == nil {
		return withSeconds, nil
	}
	if rfc, rfcErr := time.Parse(time.RFC3339, raw); rfcErr == nil {
		return rfc, nil
	}
	return time.Time{}, err
}
