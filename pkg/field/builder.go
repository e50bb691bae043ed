package field

// Leaf builds a childless node of type t.
func Leaf[ID comparable](t InputType, attrs ...Attribute) Node[ID] {
	return Node[ID]{
		Type:       t,
		Attributes: Attributes{}.Apply(attrs...),
	}
}

// Branch builds a node of type t owning children in order.
func Branch[ID comparable](t InputType, attrs []Attribute, children ...Node[ID]) Node[ID] {
	node := Leaf[ID](t, attrs...)
	if len(children) > 0 {
		node.Children = append([]Node[ID](nil), children...)
	}
	return node
}

// Group builds an unnamed-by-default grouping node.
func Group[ID comparable](attrs []Attribute, children ...Node[ID]) Node[ID] {
	return Branch(InputGroup, attrs, children...)
}

// Repeatable builds a repeatable node. template is stored aside and cloned
// to pad initial up to RepeatableMin; it is never part of Children itself.
// Initial children beyond RepeatableMax are dropped.
func Repeatable[ID comparable](attrs []Attribute, template Node[ID], initial ...Node[ID]) Node[ID] {
	node := Branch(InputRepeatable, attrs, initial...)
	if node.RepeatableMax > 0 && len(node.Children) > node.RepeatableMax {
		node.Children = node.Children[:node.RepeatableMax]
	}
	tpl := resetState(template)
	node.Template = &tpl
	for len(node.Children) < node.RepeatableMin {
		child, _ := node.Instantiate()
		node.Children = append(node.Children, child)
	}
	return node
}

func identified[ID comparable](t InputType, id ID, attrs []Attribute) Node[ID] {
	return Leaf[ID](t, attrs...).WithIdentifier(id)
}

// Text builds a single-line text input.
func Text[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputText, id, attrs)
}

// TextArea builds a multi-line text input.
func TextArea[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputTextArea, id, attrs)
}

// Email builds an email input.
func Email[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputEmail, id, attrs)
}

// Password builds a password input.
func Password[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputPassword, id, attrs)
}

// StrictAutocomplete builds a text input that only accepts option labels.
func StrictAutocomplete[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputStrictAutocomplete, id, attrs)
}

// Integer builds a whole-number input.
func Integer[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputInteger, id, attrs)
}

// Float builds a decimal input.
func Float[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputFloat, id, attrs)
}

// Date builds a calendar date input.
func Date[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputDate, id, attrs)
}

// Month builds a year-month input.
func Month[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputMonth, id, attrs)
}

// LocalDatetime builds a date and time input without zone.
func LocalDatetime[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputLocalDatetime, id, attrs)
}

// Select builds a dropdown over Options.
func Select[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputSelect, id, attrs)
}

// Radio builds a radio group over Options.
func Radio[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputRadio, id, attrs)
}

// Checkbox builds a boolean toggle, unchecked unless attrs say otherwise.
func Checkbox[ID comparable](id ID, attrs ...Attribute) Node[ID] {
	return identified(InputCheckbox, id, append([]Attribute{BoolValue(false)}, attrs...))
}
