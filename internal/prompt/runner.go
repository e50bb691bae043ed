package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/message"
	"github.com/goliatone/go-formkit/pkg/props"
	"github.com/goliatone/go-formkit/pkg/update"
	"github.com/goliatone/go-formkit/pkg/validate"
	"github.com/goliatone/go-formkit/pkg/value"
)

const (
	noneOption      = "(none)"
	suggestionLimit = 10
)

// Runner walks a tree depth first and asks for every visible, enabled input.
type Runner[ID comparable] struct {
	Driver Driver
	// Messages renders validation failures; nil falls back to Error().
	Messages *message.Catalog
	// Refresh runs after every applied event, for example to re-evaluate
	// visibility rules against the new answers.
	Refresh func(field.Node[ID]) field.Node[ID]
}

type session[ID comparable] struct {
	Runner[ID]
	tree   field.Node[ID]
	events []update.Event
}

// Run prompts through tree and returns the filled tree with the events that
// produced it. On error the tree reflects the answers given so far.
func (r Runner[ID]) Run(ctx context.Context, tree field.Node[ID]) (field.Node[ID], []update.Event, error) {
	if r.Driver == nil {
		return tree, nil, errors.New("prompt: driver is nil")
	}
	s := &session[ID]{Runner: r, tree: r.refresh(tree)}
	err := s.visit(ctx, field.Path{})
	return s.tree, s.events, err
}

func (r Runner[ID]) refresh(tree field.Node[ID]) field.Node[ID] {
	if r.Refresh == nil {
		return tree
	}
	return r.Refresh(tree)
}

func (s *session[ID]) apply(events ...update.Event) {
	s.tree = s.refresh(update.ApplyAll(s.tree, events...))
	s.events = append(s.events, events...)
}

func (s *session[ID]) visit(ctx context.Context, path field.Path) error {
	node, ok := field.Get(s.tree, path)
	if !ok || node.Hidden || node.Disabled {
		return nil
	}
	p := props.Of(node)

	switch node.Type {
	case field.InputGroup:
		if p.Label != "" && len(path) > 0 {
			if err := s.Driver.Info(ctx, p.Label); err != nil {
				return err
			}
		}
		return s.children(ctx, path)

	case field.InputRepeatable:
		return s.repeat(ctx, path, p)

	default:
		return s.leaf(ctx, path, node, p)
	}
}

// children re-reads the node on every step since answers may reveal or hide
// siblings.
func (s *session[ID]) children(ctx context.Context, path field.Path) error {
	for i := 0; ; i++ {
		node, ok := field.Get(s.tree, path)
		if !ok || i >= len(node.Children) {
			return nil
		}
		if err := s.visit(ctx, path.Child(i)); err != nil {
			return err
		}
	}
}

func (s *session[ID]) repeat(ctx context.Context, path field.Path, p props.Properties[ID]) error {
	if err := s.children(ctx, path); err != nil {
		return err
	}
	for {
		node, ok := field.Get(s.tree, path)
		if !ok || !node.CanAdd() {
			return nil
		}
		more, err := s.Driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s item %d?", labelOf(p), len(node.Children)+1),
			Help:    p.Hint,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		s.apply(update.ChildrenAdded(path))
		if err := s.visit(ctx, path.Child(len(node.Children))); err != nil {
			return err
		}
	}
}

func (s *session[ID]) leaf(ctx context.Context, path field.Path, node field.Node[ID], p props.Properties[ID]) error {
	title := labelOf(p)
	if node.Required {
		title += " *"
	}

	switch node.Type {
	case field.InputCheckbox:
		current, _ := node.Value.ToBool()
		checked, err := s.Driver.Confirm(ctx, ConfirmConfig{Message: title, Default: current, Help: p.Hint})
		if err != nil {
			return err
		}
		s.apply(update.CheckedChanged(path, checked), update.Blurred(path))
		return nil

	case field.InputSelect, field.InputRadio:
		if len(node.Options) == 0 {
			return s.Driver.Info(ctx, s.describe(field.NewNoOptionsProvided(node.Identifier)).Error())
		}
		labels, current := optionLabels(node)
		idx, err := s.Driver.Select(ctx, SelectConfig{Message: title, Options: labels, DefaultIndex: current, Help: p.Hint})
		if err != nil {
			return err
		}
		raw := ""
		if idx >= 0 && idx < len(labels) && labels[idx] != noneOption {
			raw = labels[idx]
		}
		s.apply(update.ValueChanged(path, raw), update.Blurred(path))
		return nil
	}

	cfg := InputConfig{
		Message:   title,
		Default:   p.Display,
		Help:      p.Hint,
		Validator: s.check(node),
	}
	ask := s.Driver.Input
	switch node.Type {
	case field.InputPassword:
		ask = s.Driver.Password
		cfg.Default = ""
	case field.InputTextArea:
		ask = s.Driver.TextArea
	case field.InputStrictAutocomplete:
		cfg.Suggest = func(typed string) []string {
			var out []string
			for _, option := range props.Suggest(node, typed, suggestionLimit) {
				out = append(out, option.Label)
			}
			return out
		}
	}

	raw, err := ask(ctx, cfg)
	if err != nil {
		return err
	}
	s.apply(update.ValueChanged(path, raw), update.Blurred(path))
	return nil
}

// check validates a raw answer against node before it is applied, so the
// driver can re-ask instead of storing a value that would be rejected.
func (s *session[ID]) check(node field.Node[ID]) func(string) error {
	return func(raw string) error {
		kind := node.Type.ValueKind()
		parsed, ok := value.ParseAs(kind, raw)
		if !ok {
			return s.describe(field.NewParseError(node.Identifier, value.String(raw), "expected "+kind.String()))
		}
		if node.Type == field.InputStrictAutocomplete && !parsed.IsBlank() {
			if _, ok := node.Lookup(parsed); !ok {
				return s.describe(field.NewParseError(node.Identifier, parsed, "value does not match any option"))
			}
		}
		candidate := node
		candidate.Value = parsed
		if head, ok := validate.Node(candidate).Head(); ok {
			return s.describe(head)
		}
		return nil
	}
}

func (s *session[ID]) describe(err field.Error[ID]) error {
	if s.Messages == nil {
		return err
	}
	text, renderErr := message.Render(s.Messages, err)
	if renderErr != nil {
		return err
	}
	return errors.New(text)
}

func labelOf[ID comparable](p props.Properties[ID]) string {
	for _, candidate := range []string{p.Label, p.Name} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "value"
}

// optionLabels lists the option labels, prefixed by noneOption when the input
// may stay blank, and the index of the current value.
func optionLabels[ID comparable](node field.Node[ID]) ([]string, int) {
	var labels []string
	if !node.Required {
		labels = append(labels, noneOption)
	}
	current := 0
	for _, option := range node.Options {
		if !node.Value.IsBlank() && (option.Value.Equal(node.Value) || option.Label == node.Value.Raw()) {
			current = len(labels)
		}
		labels = append(labels, option.Label)
	}
	return labels, current
}
