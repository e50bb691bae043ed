// Package props derives the read-only view of a node that renderers consume,
// so they never depend on the tree's internal shape.
package props

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// Properties is the display record of one node.
type Properties[ID comparable] struct {
	Path        field.Path       `json:"path"`
	Identifier  *ID              `json:"identifier,omitempty"`
	Type        field.InputType  `json:"type"`
	Name        string           `json:"name,omitempty"`
	Label       string           `json:"label,omitempty"`
	Hint        string           `json:"hint,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Value       value.Value      `json:"value"`
	Display     string           `json:"display"`
	Min         value.Value      `json:"min"`
	Max         value.Value      `json:"max"`
	Options     []field.Option   `json:"options,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Hidden      bool             `json:"hidden,omitempty"`
	Disabled    bool             `json:"disabled,omitempty"`
	Touched     bool             `json:"touched,omitempty"`
	Error       *field.Error[ID] `json:"error,omitempty"`
	CanAdd      bool             `json:"canAdd,omitempty"`
	CanRemove   bool             `json:"canRemove,omitempty"`
}

// Option configures projection.
type Option func(*config)

type config struct {
	markup     bool
	showErrors bool
}

// AllowMarkup keeps inline formatting (emphasis, code, links) in labels and
// hints. Without it every tag is stripped.
func AllowMarkup() Option {
	return func(cfg *config) {
		cfg.markup = true
	}
}

// ShowErrors exposes the head error of untouched nodes too.
func ShowErrors() Option {
	return func(cfg *config) {
		cfg.showErrors = true
	}
}

func newConfig(options []Option) config {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Of projects node. The error is the head of the node's error list and is
// only exposed once the node has been touched.
func Of[ID comparable](node field.Node[ID], options ...Option) Properties[ID] {
	return project(node, nil, newConfig(options))
}

// Walk projects every node of tree in depth-first pre-order, passing the
// path each record was found at. Returning false skips the node's children.
func Walk[ID comparable](tree field.Node[ID], fn func(Properties[ID]) bool, options ...Option) {
	cfg := newConfig(options)
	field.Walk(tree, func(path field.Path, node field.Node[ID]) bool {
		return fn(project(node, path, cfg))
	})
}

func project[ID comparable](node field.Node[ID], path field.Path, cfg config) Properties[ID] {
	p := Properties[ID]{
		Path:        path,
		Identifier:  node.Identifier,
		Type:        node.Type,
		Name:        node.Name,
		Label:       sanitize(node.Label, cfg.markup),
		Hint:        sanitize(node.Hint, cfg.markup),
		Placeholder: sanitize(node.Placeholder, false),
		Value:       node.Value,
		Display:     display(node),
		Min:         node.Min,
		Max:         node.Max,
		Options:     node.Options,
		Required:    node.Required,
		Hidden:      node.Hidden,
		Disabled:    node.Disabled,
		Touched:     node.Touched,
		CanAdd:      node.CanAdd(),
		CanRemove:   node.CanRemove(),
	}
	if node.Touched || cfg.showErrors {
		if head, ok := node.Errors.Head(); ok {
			p.Error = &head
		}
	}
	return p
}

// display is the text an input element shows: the matching option label for
// option inputs, the raw value otherwise.
func display[ID comparable](node field.Node[ID]) string {
	if node.Type.HasOptions() && !node.Value.IsBlank() {
		for _, option := range node.Options {
			if option.Value.Equal(node.Value) {
				return option.Label
			}
		}
	}
	return node.Value.Raw()
}
