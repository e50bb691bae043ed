package field

import "github.com/goliatone/go-formkit/pkg/value"

// Attribute mutates a node's attributes while it is being built. Builders
// apply attributes in order, so a later attribute overwrites an earlier one
// targeting the same setting.
type Attribute func(*Attributes)

// Apply runs attrs against a copy of a and returns it.
func (a Attributes) Apply(attrs ...Attribute) Attributes {
	for _, attr := range attrs {
		if attr != nil {
			attr(&a)
		}
	}
	if len(a.Options) > 0 {
		a.Options = append([]Option(nil), a.Options...)
	}
	return a
}

// Name sets the key used by the JSON projection.
func Name(name string) Attribute {
	return func(a *Attributes) { a.Name = name }
}

// Label sets the display label.
func Label(label string) Attribute {
	return func(a *Attributes) { a.Label = label }
}

// Hint sets the help text shown next to the input.
func Hint(hint string) Attribute {
	return func(a *Attributes) { a.Hint = hint }
}

// Placeholder sets the input placeholder.
func Placeholder(placeholder string) Attribute {
	return func(a *Attributes) { a.Placeholder = placeholder }
}

// Value sets the initial value.
func Value(v value.Value) Attribute {
	return func(a *Attributes) { a.Value = v }
}

// StringValue sets a text initial value.
func StringValue(s string) Attribute { return Value(value.String(s)) }

// IntValue sets an integer initial value.
func IntValue(i int) Attribute { return Value(value.Int(i)) }

// FloatValue sets a float initial value.
func FloatValue(f float64) Attribute { return Value(value.Float(f)) }

// BoolValue sets a boolean initial value.
func BoolValue(b bool) Attribute { return Value(value.Bool(b)) }

// Min sets the lower bound checked by the validator.
func Min(v value.Value) Attribute {
	return func(a *Attributes) { a.Min = v }
}

// Max sets the upper bound checked by the validator.
func Max(v value.Value) Attribute {
	return func(a *Attributes) { a.Max = v }
}

// Options replaces the option list.
func Options(options ...Option) Attribute {
	return func(a *Attributes) { a.Options = append([]Option(nil), options...) }
}

// StringOptions offers each label as an option whose value is the label text.
func StringOptions(labels ...string) Attribute {
	options := make([]Option, 0, len(labels))
	for _, label := range labels {
		options = append(options, Option{Label: label, Value: value.String(label)})
	}
	return Options(options...)
}

// Required marks the node as requiring a non-blank value.
func Required(required bool) Attribute {
	return func(a *Attributes) { a.Required = required }
}

// Hidden toggles the node's visibility.
func Hidden(hidden bool) Attribute {
	return func(a *Attributes) { a.Hidden = hidden }
}

// Disabled toggles whether the input accepts edits.
func Disabled(disabled bool) Attribute {
	return func(a *Attributes) { a.Disabled = disabled }
}

// RepeatableMin sets the minimum child count of a repeatable node.
func RepeatableMin(n int) Attribute {
	return func(a *Attributes) { a.RepeatableMin = n }
}

// RepeatableMax sets the maximum child count of a repeatable node.
func RepeatableMax(n int) Attribute {
	return func(a *Attributes) { a.RepeatableMax = n }
}
