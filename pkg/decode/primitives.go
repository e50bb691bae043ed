package decode

import (
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// resolve reads the value of an input node. Option-based inputs translate a
// matching display label (or option value) into the option's value. A strict
// autocomplete rejects anything that matches no option; select and radio
// pass an unmatched value through unchanged.
func resolve[ID comparable](node field.Node[ID]) (value.Value, field.Errors[ID]) {
	if node.Type.IsContainer() {
		return value.Blank(), field.Errors[ID]{field.NewIsGroupNotInput(node.Identifier)}
	}
	v := node.Value
	if v.IsBlank() || !node.Type.HasOptions() || len(node.Options) == 0 {
		return v, nil
	}
	if resolved, ok := node.Lookup(v); ok {
		return resolved, nil
	}
	if node.Type == field.InputStrictAutocomplete {
		return value.Blank(), field.Errors[ID]{field.NewParseError(node.Identifier, v, "value does not match any option")}
	}
	return v, nil
}

// typed builds a primitive parser around an accessor. Blank values fail with
// IsBlank so an absent input reads the same here and in the validator; wrap
// the parser in Maybe to accept it.
func typed[ID comparable, A any](expected string, read func(value.Value) (A, bool)) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		var zero A
		v, errs := resolve(node)
		if len(errs) > 0 {
			return node, zero, errs
		}
		if v.IsBlank() {
			return node, zero, field.Errors[ID]{field.NewIsBlank(node.Identifier)}
		}
		out, ok := read(v)
		if !ok {
			return node, zero, field.Errors[ID]{field.NewParseError(node.Identifier, v, "expected "+expected)}
		}
		return node, out, nil
	}
}

// String reads a text value.
func String[ID comparable]() Parser[ID, string] {
	return typed[ID]("text", value.Value.ToString)
}

// Int reads an integer value.
func Int[ID comparable]() Parser[ID, int] {
	return typed[ID]("an integer", value.Value.ToInt)
}

// Float reads a number. Integers widen.
func Float[ID comparable]() Parser[ID, float64] {
	return typed[ID]("a number", value.Value.ToFloat)
}

// Bool reads a boolean value.
func Bool[ID comparable]() Parser[ID, bool] {
	return typed[ID]("a boolean", value.Value.ToBool)
}

// Time reads a date, month or local date-time value.
func Time[ID comparable]() Parser[ID, time.Time] {
	return typed[ID]("a date or time", value.Value.ToTime)
}

// Value returns the resolved value as is, blank included.
func Value[ID comparable]() Parser[ID, value.Value] {
	return func(node field.Node[ID]) (field.Node[ID], value.Value, field.Errors[ID]) {
		v, errs := resolve(node)
		if len(errs) > 0 {
			return node, value.Blank(), errs
		}
		return node, v, nil
	}
}

// Custom hands the resolved value to fn. A returned error becomes a
// CustomError carrying its message.
func Custom[ID comparable, A any](fn func(value.Value) (A, error)) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		var zero A
		v, errs := resolve(node)
		if len(errs) > 0 {
			return node, zero, errs
		}
		out, err := fn(v)
		if err != nil {
			return node, zero, field.Errors[ID]{field.NewCustomError(node.Identifier, err.Error())}
		}
		return node, out, nil
	}
}

// Format reads a text value, stores fn's rewrite of it back on the node and
// returns the rewritten text.
func Format[ID comparable](fn func(string) string) Parser[ID, string] {
	return func(node field.Node[ID]) (field.Node[ID], string, field.Errors[ID]) {
		node, raw, errs := String[ID]()(node)
		if len(errs) > 0 {
			return node, "", errs
		}
		formatted := fn(raw)
		node.Value = value.String(formatted)
		return node, formatted, nil
	}
}

// Maybe succeeds with nil on a blank value without running p. Otherwise it
// runs p and points at its result. Groups and repeatables hold no value of
// their own, so p always runs on them.
func Maybe[ID comparable, A any](p Parser[ID, A]) Parser[ID, *A] {
	return func(node field.Node[ID]) (field.Node[ID], *A, field.Errors[ID]) {
		if !node.Type.IsContainer() && node.Value.IsBlank() {
			return node, nil, nil
		}
		node, out, errs := p(node)
		if len(errs) > 0 {
			return node, nil, errs
		}
		return node, &out, nil
	}
}
