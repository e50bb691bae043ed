// Package field defines the form tree: a rose tree of typed input nodes with
// the attributes renderers, the validator and the decoders read. Nodes are
// plain values. Every operation in this package returns a new tree and leaves
// its input untouched, sharing unmodified subtrees with the previous version.
package field

import "github.com/goliatone/go-formkit/pkg/value"

// InputType is the closed set of node kinds.
type InputType string

const (
	InputText               InputType = "text"
	InputTextArea           InputType = "textarea"
	InputEmail              InputType = "email"
	InputPassword           InputType = "password"
	InputStrictAutocomplete InputType = "strict-autocomplete"
	InputInteger            InputType = "integer"
	InputFloat              InputType = "float"
	InputDate               InputType = "date"
	InputMonth              InputType = "month"
	InputLocalDatetime      InputType = "datetime-local"
	InputSelect             InputType = "select"
	InputRadio              InputType = "radio"
	InputCheckbox           InputType = "checkbox"
	InputGroup              InputType = "group"
	InputRepeatable         InputType = "repeatable"
)

// InputTypes lists every supported input type in declaration order.
var InputTypes = []InputType{
	InputText, InputTextArea, InputEmail, InputPassword, InputStrictAutocomplete,
	InputInteger, InputFloat, InputDate, InputMonth, InputLocalDatetime,
	InputSelect, InputRadio, InputCheckbox, InputGroup, InputRepeatable,
}

// Valid reports whether t is one of the declared input types.
func (t InputType) Valid() bool {
	for _, candidate := range InputTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsContainer reports whether nodes of this type own children.
func (t InputType) IsContainer() bool {
	return t == InputGroup || t == InputRepeatable
}

// HasOptions reports whether the type resolves its value through Options.
func (t InputType) HasOptions() bool {
	switch t {
	case InputSelect, InputRadio, InputStrictAutocomplete:
		return true
	default:
		return false
	}
}

// ValueKind is the value variant a raw input string is read into.
func (t InputType) ValueKind() value.Kind {
	switch t {
	case InputInteger:
		return value.KindInteger
	case InputFloat:
		return value.KindFloat
	case InputDate:
		return value.KindDate
	case InputMonth:
		return value.KindMonth
	case InputLocalDatetime:
		return value.KindTime
	case InputCheckbox:
		return value.KindBoolean
	case InputGroup, InputRepeatable:
		return value.KindBlank
	default:
		return value.KindText
	}
}

// ParseInput reads a raw display string for a node of type t. Strings that
// do not parse as the expected variant leave the value blank.
func ParseInput(t InputType, raw string) value.Value {
	parsed, ok := value.ParseAs(t.ValueKind(), raw)
	if !ok {
		return value.Blank()
	}
	return parsed
}

// Option is a (display label, value) pair offered by select, radio and
// autocomplete inputs.
type Option struct {
	Label string      `json:"label"`
	Value value.Value `json:"value"`
}

// Attributes holds the declarative, identifier-independent attributes of a
// node. Blank Min/Max mean "no bound". RepeatableMin/RepeatableMax of zero
// mean "no bound" and only apply to repeatable nodes.
type Attributes struct {
	Name          string      `json:"name,omitempty"`
	Label         string      `json:"label,omitempty"`
	Hint          string      `json:"hint,omitempty"`
	Placeholder   string      `json:"placeholder,omitempty"`
	Value         value.Value `json:"value"`
	Min           value.Value `json:"min"`
	Max           value.Value `json:"max"`
	Options       []Option    `json:"options,omitempty"`
	Required      bool        `json:"required,omitempty"`
	Hidden        bool        `json:"hidden,omitempty"`
	Disabled      bool        `json:"disabled,omitempty"`
	RepeatableMin int         `json:"repeatableMin,omitempty"`
	RepeatableMax int         `json:"repeatableMax,omitempty"`
}

// Node is one element of the form tree. Group and Repeatable nodes own
// Children; a Repeatable additionally keeps the Template it clones when a
// child is added. The template is never part of Children.
type Node[ID comparable] struct {
	Type       InputType `json:"type"`
	Identifier *ID       `json:"identifier,omitempty"`
	Attributes
	Errors   Errors[ID] `json:"errors,omitempty"`
	Touched  bool       `json:"touched,omitempty"`
	Children []Node[ID] `json:"children,omitempty"`
	Template *Node[ID]  `json:"template,omitempty"`
}

// Ident returns a pointer to id, for building identifiers and expected errors.
func Ident[ID comparable](id ID) *ID {
	return &id
}

// HasIdentifier reports whether the node carries id.
func (n Node[ID]) HasIdentifier(id ID) bool {
	return n.Identifier != nil && *n.Identifier == id
}

// WithIdentifier returns a copy of n carrying id.
func (n Node[ID]) WithIdentifier(id ID) Node[ID] {
	n.Identifier = Ident(id)
	return n
}

// WithChildren returns a copy of n whose children are replaced.
func (n Node[ID]) WithChildren(children []Node[ID]) Node[ID] {
	n.Children = children
	return n
}

// WithValue returns a copy of n holding v.
func (n Node[ID]) WithValue(v value.Value) Node[ID] {
	n.Value = v
	return n
}

// Lookup resolves a display label against the node's options. It also
// accepts a value that already equals one of the option values.
func (n Node[ID]) Lookup(v value.Value) (value.Value, bool) {
	if len(n.Options) == 0 || v.IsBlank() {
		return value.Blank(), false
	}
	if label, ok := v.ToString(); ok {
		for _, option := range n.Options {
			if option.Label == label {
				return option.Value, true
			}
		}
	}
	for _, option := range n.Options {
		if option.Value.Equal(v) {
			return option.Value, true
		}
	}
	return value.Blank(), false
}

func resetState[ID comparable](n Node[ID]) Node[ID] {
	n.Errors = nil
	n.Touched = false
	if len(n.Children) > 0 {
		children := make([]Node[ID], len(n.Children))
		for i, child := range n.Children {
			children[i] = resetState(child)
		}
		n.Children = children
	}
	return n
}

// Instantiate returns a new child for a repeatable node built from its
// template. ok is false for non-repeatable nodes or a missing template.
func (n Node[ID]) Instantiate() (Node[ID], bool) {
	if n.Type != InputRepeatable || n.Template == nil {
		return Node[ID]{}, false
	}
	return resetState(*n.Template), true
}

// CanAdd reports whether another child fits under RepeatableMax.
func (n Node[ID]) CanAdd() bool {
	if n.Type != InputRepeatable || n.Template == nil {
		return false
	}
	return n.RepeatableMax <= 0 || len(n.Children) < n.RepeatableMax
}

// CanRemove reports whether removing one child keeps RepeatableMin.
func (n Node[ID]) CanRemove() bool {
	if n.Type != InputRepeatable || len(n.Children) == 0 {
		return false
	}
	return len(n.Children)-1 >= n.RepeatableMin
}
