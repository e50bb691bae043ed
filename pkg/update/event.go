// Package update applies interaction events to a form tree. Every event is
// addressed by the structural path of its target node; an event whose path
// does not resolve leaves the tree as it was.
package update

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/field"
)

// Kind identifies an interaction event.
type Kind string

const (
	KindValueChanged    Kind = "value_changed"
	KindCheckedChanged  Kind = "checked_changed"
	KindFocused         Kind = "focused"
	KindBlurred         Kind = "blurred"
	KindChildrenAdded   Kind = "children_added"
	KindChildrenRemoved Kind = "children_removed"
)

// Event is the serialisable message a renderer emits for a user interaction.
type Event struct {
	Kind    Kind       `json:"kind"`
	Path    field.Path `json:"path"`
	Value   string     `json:"value,omitempty"`
	Checked bool       `json:"checked,omitempty"`
}

// ValueChanged reports new raw text for the input at path.
func ValueChanged(path field.Path, raw string) Event {
	return Event{Kind: KindValueChanged, Path: path, Value: raw}
}

// CheckedChanged reports a toggled checkbox at path.
func CheckedChanged(path field.Path, checked bool) Event {
	return Event{Kind: KindCheckedChanged, Path: path, Checked: checked}
}

// Focused reports that the input at path gained focus.
func Focused(path field.Path) Event {
	return Event{Kind: KindFocused, Path: path}
}

// Blurred reports that the input at path lost focus.
func Blurred(path field.Path) Event {
	return Event{Kind: KindBlurred, Path: path}
}

// ChildrenAdded asks the repeatable node at path for one more child.
func ChildrenAdded(path field.Path) Event {
	return Event{Kind: KindChildrenAdded, Path: path}
}

// ChildrenRemoved asks for the repeatable child at path to be removed.
func ChildrenRemoved(path field.Path) Event {
	return Event{Kind: KindChildrenRemoved, Path: path}
}

// Decode reads an event from JSON, rejecting unknown kinds.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("update: decode event: %w", err)
	}
	switch ev.Kind {
	case KindValueChanged, KindCheckedChanged, KindFocused, KindBlurred, KindChildrenAdded, KindChildrenRemoved:
		return ev, nil
	default:
		return Event{}, fmt.Errorf("update: unknown event kind %q", ev.Kind)
	}
}
