// Package formdef loads declarative form definitions from JSON or YAML files
// and builds them into form trees identified by string ids.
//
// A definition file holds a "forms" map keyed by form id:
//
//	forms:
//	  signup:
//	    label: Sign up
//	    fields:
//	      - id: name
//	        type: text
//	        required: true
//	      - id: contact
//	        type: radio
//	        options: [email, phone]
//	      - id: phone
//	        type: text
//	        visibleWhen: contact == "phone"
//
// Files are checked against an embedded JSON schema before they are decoded.
package formdef

import (
	"encoding/json"
	"fmt"
)

// Form is one named form definition.
type Form struct {
	ID     string  `json:"-"`
	Source string  `json:"-"`
	Label  string  `json:"label,omitempty"`
	Hint   string  `json:"hint,omitempty"`
	Fields []Field `json:"fields"`
}

// Field defines one node. Group children live in Fields, the child shape of a
// repeatable in Template.
type Field struct {
	ID            string   `json:"id,omitempty"`
	Type          string   `json:"type"`
	Name          string   `json:"name,omitempty"`
	Label         string   `json:"label,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	Placeholder   string   `json:"placeholder,omitempty"`
	Value         any      `json:"value,omitempty"`
	Min           any      `json:"min,omitempty"`
	Max           any      `json:"max,omitempty"`
	Options       []Option `json:"options,omitempty"`
	Required      bool     `json:"required,omitempty"`
	Hidden        bool     `json:"hidden,omitempty"`
	Disabled      bool     `json:"disabled,omitempty"`
	RepeatableMin int      `json:"repeatableMin,omitempty"`
	RepeatableMax int      `json:"repeatableMax,omitempty"`
	VisibleWhen   string   `json:"visibleWhen,omitempty"`
	Fields        []Field  `json:"fields,omitempty"`
	Template      *Field   `json:"template,omitempty"`
}

// Option is a (label, value) pair. A bare string is shorthand for an option
// whose value is its label.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value,omitempty"`
}

// UnmarshalJSON accepts either a string or a {label, value} object.
func (o *Option) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*o = Option{Label: label}
		return nil
	}
	type plain Option
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("formdef: option must be a string or an object: %w", err)
	}
	*o = Option(decoded)
	return nil
}

type documentFile struct {
	Forms map[string]Form `json:"forms"`
}
