package formdef

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// check enforces what the schema cannot express: unique ids across the
// form, templates included.
func (f Form) check() error {
	seen := make(map[string]struct{})
	var visit func(fields []Field) error
	visit = func(fields []Field) error {
		for _, def := range fields {
			if id := strings.TrimSpace(def.ID); id != "" {
				if _, exists := seen[id]; exists {
					return fmt.Errorf("formdef: form %q (file %s) defines duplicate field id %q", f.ID, f.Source, id)
				}
				seen[id] = struct{}{}
			}
			if err := visit(def.Fields); err != nil {
				return err
			}
			if def.Template != nil {
				if err := visit([]Field{*def.Template}); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(f.Fields)
}

// Build turns the definition into a tree: an unnamed root group labelled
// with the form label and holding one node per field. Leaves and
// repeatables without an explicit name use their id as name so the JSON
// projection has keys by default; groups stay unnamed and flatten unless
// named.
func (f Form) Build() (field.Node[string], error) {
	children := make([]field.Node[string], 0, len(f.Fields))
	for i, def := range f.Fields {
		node, err := def.build()
		if err != nil {
			return field.Node[string]{}, fmt.Errorf("formdef: form %q field %d: %w", f.ID, i, err)
		}
		children = append(children, node)
	}
	root := field.Group([]field.Attribute{field.Label(f.Label), field.Hint(f.Hint)}, children...)
	if f.ID != "" {
		root = root.WithIdentifier(f.ID)
	}
	return root, nil
}

// Rules returns the visibleWhen expression of every field that has one,
// keyed by field id.
func (f Form) Rules() map[string]string {
	rules := make(map[string]string)
	var visit func(fields []Field)
	visit = func(fields []Field) {
		for _, def := range fields {
			if expr := strings.TrimSpace(def.VisibleWhen); expr != "" && def.ID != "" {
				rules[def.ID] = expr
			}
			visit(def.Fields)
			if def.Template != nil {
				visit([]Field{*def.Template})
			}
		}
	}
	visit(f.Fields)
	return rules
}

func (def Field) build() (field.Node[string], error) {
	t := field.InputType(strings.TrimSpace(def.Type))
	if !t.Valid() {
		return field.Node[string]{}, fmt.Errorf("unknown input type %q", def.Type)
	}

	attrs, err := def.attributes(t)
	if err != nil {
		return field.Node[string]{}, err
	}

	var node field.Node[string]
	switch t {
	case field.InputGroup:
		children := make([]field.Node[string], 0, len(def.Fields))
		for i, childDef := range def.Fields {
			child, err := childDef.build()
			if err != nil {
				return field.Node[string]{}, fmt.Errorf("%s child %d: %w", def.describe(), i, err)
			}
			children = append(children, child)
		}
		node = field.Group(attrs, children...)

	case field.InputRepeatable:
		if def.Template == nil {
			return field.Node[string]{}, fmt.Errorf("%s has no template", def.describe())
		}
		if def.RepeatableMax > 0 && def.RepeatableMin > def.RepeatableMax {
			return field.Node[string]{}, fmt.Errorf("%s repeatableMin %d exceeds repeatableMax %d", def.describe(), def.RepeatableMin, def.RepeatableMax)
		}
		template, err := def.Template.build()
		if err != nil {
			return field.Node[string]{}, fmt.Errorf("%s template: %w", def.describe(), err)
		}
		node = field.Repeatable(attrs, template)

	default:
		if len(def.Fields) > 0 || def.Template != nil {
			return field.Node[string]{}, fmt.Errorf("%s is an input and cannot hold fields", def.describe())
		}
		node = field.Leaf[string](t, attrs...)
	}

	if id := strings.TrimSpace(def.ID); id != "" {
		node = node.WithIdentifier(id)
	}
	return node, nil
}

func (def Field) attributes(t field.InputType) ([]field.Attribute, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" && t != field.InputGroup {
		name = strings.TrimSpace(def.ID)
	}

	attrs := []field.Attribute{
		field.Name(name),
		field.Label(def.Label),
		field.Hint(def.Hint),
		field.Placeholder(def.Placeholder),
		field.Required(def.Required),
		field.Hidden(def.Hidden),
		field.Disabled(def.Disabled),
		field.RepeatableMin(def.RepeatableMin),
		field.RepeatableMax(def.RepeatableMax),
	}

	if len(def.Options) > 0 {
		options := make([]field.Option, 0, len(def.Options))
		for _, opt := range def.Options {
			v := value.String(opt.Label)
			if opt.Value != nil {
				converted, ok := value.FromAny(value.KindBlank, opt.Value)
				if !ok {
					return nil, fmt.Errorf("%s option %q has an unsupported value %v", def.describe(), opt.Label, opt.Value)
				}
				v = converted
			}
			options = append(options, field.Option{Label: opt.Label, Value: v})
		}
		attrs = append(attrs, field.Options(options...))
	}

	kind := t.ValueKind()
	for _, bound := range []struct {
		label string
		raw   any
		set   func(value.Value) field.Attribute
	}{
		{"value", def.Value, field.Value},
		{"min", def.Min, field.Min},
		{"max", def.Max, field.Max},
	} {
		if bound.raw == nil {
			continue
		}
		v, ok := value.FromAny(kind, bound.raw)
		if !ok {
			return nil, fmt.Errorf("%s %s %v is not a valid %s", def.describe(), bound.label, bound.raw, kind)
		}
		attrs = append(attrs, bound.set(v))
	}

	if t == field.InputCheckbox && def.Value == nil {
		attrs = append(attrs, field.BoolValue(false))
	}
	return attrs, nil
}

func (def Field) describe() string {
	if id := strings.TrimSpace(def.ID); id != "" {
		return fmt.Sprintf("%s %q", def.Type, id)
	}
	return def.Type
}
