package field

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/value"
)

// ErrorKind tags a form error. The same taxonomy is shared by the validator,
// which stores errors on nodes, and the decoders, which return them.
type ErrorKind string

const (
	ValueTooLarge       ErrorKind = "value_too_large"
	ValueTooSmall       ErrorKind = "value_too_small"
	ValueNotInRange     ErrorKind = "value_not_in_range"
	IsBlank             ErrorKind = "is_blank"
	CustomError         ErrorKind = "custom_error"
	ListError           ErrorKind = "list_error"
	InputNotFound       ErrorKind = "input_not_found"
	RepeatableHasNoName ErrorKind = "repeatable_has_no_name"
	IsGroupNotInput     ErrorKind = "is_group_not_input"
	NoOptionsProvided   ErrorKind = "no_options_provided"
	ParseError          ErrorKind = "parse_error"
)

// Error is a tagged form error. Identifier points at the offending node when
// it has one. Missing is only set for InputNotFound, Index and Inner only for
// ListError.
type Error[ID comparable] struct {
	Kind       ErrorKind   `json:"kind"`
	Identifier *ID         `json:"identifier,omitempty"`
	Value      value.Value `json:"value"`
	Min        value.Value `json:"min"`
	Max        value.Value `json:"max"`
	Message    string      `json:"message,omitempty"`
	Index      int         `json:"index,omitempty"`
	Inner      *Error[ID]  `json:"inner,omitempty"`
	Missing    *ID         `json:"missing,omitempty"`
}

// NewValueTooLarge reports v above max.
func NewValueTooLarge[ID comparable](id *ID, v, max value.Value) Error[ID] {
	return Error[ID]{Kind: ValueTooLarge, Identifier: id, Value: v, Max: max}
}

// NewValueTooSmall reports v below min.
func NewValueTooSmall[ID comparable](id *ID, v, min value.Value) Error[ID] {
	return Error[ID]{Kind: ValueTooSmall, Identifier: id, Value: v, Min: min}
}

// NewValueNotInRange reports v outside [min, max].
func NewValueNotInRange[ID comparable](id *ID, v, min, max value.Value) Error[ID] {
	return Error[ID]{Kind: ValueNotInRange, Identifier: id, Value: v, Min: min, Max: max}
}

// NewIsBlank reports a required node without a value.
func NewIsBlank[ID comparable](id *ID) Error[ID] {
	return Error[ID]{Kind: IsBlank, Identifier: id}
}

// NewCustomError carries a caller-supplied message.
func NewCustomError[ID comparable](id *ID, message string) Error[ID] {
	return Error[ID]{Kind: CustomError, Identifier: id, Message: message}
}

// NewListError wraps the error of the index-th child of a repeatable node.
func NewListError[ID comparable](index int, inner Error[ID]) Error[ID] {
	return Error[ID]{Kind: ListError, Identifier: inner.Identifier, Index: index, Inner: &inner}
}

// NewInputNotFound reports that no node carries missing.
func NewInputNotFound[ID comparable](missing ID) Error[ID] {
	return Error[ID]{Kind: InputNotFound, Missing: Ident(missing)}
}

// NewRepeatableHasNoName reports a container that needs a name to be
// projected.
func NewRepeatableHasNoName[ID comparable](id *ID) Error[ID] {
	return Error[ID]{Kind: RepeatableHasNoName, Identifier: id}
}

// NewIsGroupNotInput reports a value parser applied to a container node.
func NewIsGroupNotInput[ID comparable](id *ID) Error[ID] {
	return Error[ID]{Kind: IsGroupNotInput, Identifier: id}
}

// NewNoOptionsProvided reports an option-based input without options.
func NewNoOptionsProvided[ID comparable](id *ID) Error[ID] {
	return Error[ID]{Kind: NoOptionsProvided, Identifier: id}
}

// NewParseError reports a value that could not be read as the requested type.
func NewParseError[ID comparable](id *ID, v value.Value, message string) Error[ID] {
	return Error[ID]{Kind: ParseError, Identifier: id, Value: v, Message: message}
}

// Equal reports structural equality, the relation used to de-duplicate.
func (e Error[ID]) Equal(other Error[ID]) bool {
	if e.Kind != other.Kind || e.Message != other.Message || e.Index != other.Index {
		return false
	}
	if !sameIdent(e.Identifier, other.Identifier) || !sameIdent(e.Missing, other.Missing) {
		return false
	}
	if !e.Value.Equal(other.Value) || !e.Min.Equal(other.Min) || !e.Max.Equal(other.Max) {
		return false
	}
	switch {
	case e.Inner == nil && other.Inner == nil:
		return true
	case e.Inner == nil || other.Inner == nil:
		return false
	default:
		return e.Inner.Equal(*other.Inner)
	}
}

func sameIdent[ID comparable](a, b *ID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Error implements the error interface.
func (e Error[ID]) Error() string {
	var b strings.Builder
	if e.Identifier != nil {
		fmt.Fprintf(&b, "%v: ", *e.Identifier)
	}
	switch e.Kind {
	case ValueTooLarge:
		fmt.Fprintf(&b, "value %s is larger than %s", e.Value.Raw(), e.Max.Raw())
	case ValueTooSmall:
		fmt.Fprintf(&b, "value %s is smaller than %s", e.Value.Raw(), e.Min.Raw())
	case ValueNotInRange:
		fmt.Fprintf(&b, "value %s is not between %s and %s", e.Value.Raw(), e.Min.Raw(), e.Max.Raw())
	case IsBlank:
		b.WriteString("value is required")
	case CustomError:
		b.WriteString(e.Message)
	case ListError:
		b.Reset()
		fmt.Fprintf(&b, "item %d: ", e.Index)
		if e.Inner != nil {
			b.WriteString(e.Inner.Error())
		}
	case InputNotFound:
		if e.Missing != nil {
			fmt.Fprintf(&b, "input %v not found", *e.Missing)
		} else {
			b.WriteString("input not found")
		}
	case RepeatableHasNoName:
		b.WriteString("container has no name")
	case IsGroupNotInput:
		b.WriteString("node is a group, not an input")
	case NoOptionsProvided:
		b.WriteString("no options provided")
	case ParseError:
		if e.Message != "" {
			b.WriteString(e.Message)
		} else {
			fmt.Fprintf(&b, "could not parse %q", e.Value.Raw())
		}
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

// Unwrap exposes the wrapped child error of a ListError.
func (e Error[ID]) Unwrap() error {
	if e.Inner == nil {
		return nil
	}
	return *e.Inner
}

// Errors is an ordered list of form errors without structural duplicates.
type Errors[ID comparable] []Error[ID]

// Append adds errs to the list, skipping any already present.
func (list Errors[ID]) Append(errs ...Error[ID]) Errors[ID] {
	out := append(Errors[ID](nil), list...)
	for _, err := range errs {
		if !out.Contains(err) {
			out = append(out, err)
		}
	}
	return out
}

// Merge returns the de-duplicated union of every list, in order. The result
// never aliases the inputs.
func Merge[ID comparable](lists ...Errors[ID]) Errors[ID] {
	var out Errors[ID]
	for _, list := range lists {
		for _, err := range list {
			if !out.Contains(err) {
				out = append(out, err)
			}
		}
	}
	return out
}

// Contains reports whether err is structurally present in the list.
func (list Errors[ID]) Contains(err Error[ID]) bool {
	for _, existing := range list {
		if existing.Equal(err) {
			return true
		}
	}
	return false
}

// Err returns the list as an error, or nil when it is empty.
func (list Errors[ID]) Err() error {
	if len(list) == 0 {
		return nil
	}
	return list
}

// Error implements the error interface.
func (list Errors[ID]) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", list[0].Error(), len(list)-1)
}

// Unwrap exposes every error for errors.Is and errors.As.
func (list Errors[ID]) Unwrap() []error {
	out := make([]error, len(list))
	for i, err := range list {
		out[i] = err
	}
	return out
}

// Head returns the first error, which renderers display.
func (list Errors[ID]) Head() (Error[ID], bool) {
	if len(list) == 0 {
		return Error[ID]{}, false
	}
	return list[0], true
}
