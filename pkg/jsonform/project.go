// Package jsonform converts between form trees and JSON-like objects keyed by
// the nodes' name attributes.
//
// Projection rules: a named leaf contributes its resolved value; an unnamed
// group merges its children into the enclosing object; a named group nests
// its children under its name; a repeatable becomes an array with one entry
// per child (an object for container children, a scalar for leaf children)
// and must be named. Unnamed leaves are not projected.
package jsonform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/decode"
	"github.com/goliatone/go-formkit/pkg/field"
)

// Option configures projection.
type Option func(*config)

type config struct {
	skipHidden bool
}

// SkipHidden leaves hidden nodes and their subtrees out of the projection.
func SkipHidden() Option {
	return func(cfg *config) {
		cfg.skipHidden = true
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

// Parser projects the node it runs against into an object. It does not
// rewrite the node.
func Parser[ID comparable](options ...Option) decode.Parser[ID, map[string]any] {
	cfg := newConfig(options)
	return func(node field.Node[ID]) (field.Node[ID], map[string]any, field.Errors[ID]) {
		out := make(map[string]any)
		if errs := projectInto(node, out, cfg); len(errs) > 0 {
			return node, nil, errs
		}
		return node, out, nil
	}
}

// Project returns the object projection of tree.
func Project[ID comparable](tree field.Node[ID], options ...Option) (map[string]any, error) {
	return decode.Parse(Parser[ID](options...), tree)
}

// Marshal projects tree and encodes it as JSON. Keys are sorted.
func Marshal[ID comparable](tree field.Node[ID], options ...Option) ([]byte, error) {
	obj, err := Project(tree, options...)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("jsonform: encode: %w", err)
	}
	return data, nil
}

func projectInto[ID comparable](node field.Node[ID], acc map[string]any, cfg config) field.Errors[ID] {
	if cfg.skipHidden && node.Hidden {
		return nil
	}
	name := strings.TrimSpace(node.Name)

	switch node.Type {
	case field.InputGroup:
		if name == "" {
			return projectChildren(node, acc, cfg)
		}
		nested := make(map[string]any)
		errs := projectChildren(node, nested, cfg)
		acc[name] = nested
		return errs

	case field.InputRepeatable:
		if name == "" {
			return field.Errors[ID]{field.NewRepeatableHasNoName(node.Identifier)}
		}
		items, errs := projectItems(node, cfg)
		acc[name] = items
		return errs

	default:
		if name == "" {
			return nil
		}
		_, v, errs := decode.Value[ID]()(node)
		if len(errs) > 0 {
			return errs
		}
		acc[name] = v.Encode()
		return nil
	}
}

func projectChildren[ID comparable](node field.Node[ID], acc map[string]any, cfg config) field.Errors[ID] {
	var errs field.Errors[ID]
	for _, child := range node.Children {
		errs = field.Merge(errs, projectInto(child, acc, cfg))
	}
	return errs
}

func projectItems[ID comparable](node field.Node[ID], cfg config) ([]any, field.Errors[ID]) {
	items := make([]any, 0, len(node.Children))
	var errs field.Errors[ID]
	for i, child := range node.Children {
		if cfg.skipHidden && child.Hidden {
			continue
		}
		item, childErrs := projectItem(child, cfg)
		for _, err := range childErrs {
			errs = errs.Append(field.NewListError(i, err))
		}
		items = append(items, item)
	}
	return items, errs
}

// projectItem projects one repeatable child. Its own name is irrelevant: the
// array position already addresses it.
func projectItem[ID comparable](child field.Node[ID], cfg config) (any, field.Errors[ID]) {
	switch child.Type {
	case field.InputGroup:
		obj := make(map[string]any)
		return obj, projectChildren(child, obj, cfg)
	case field.InputRepeatable:
		items, errs := projectItems(child, cfg)
		return items, errs
	default:
		_, v, errs := decode.Value[ID]()(child)
		if len(errs) > 0 {
			return nil, errs
		}
		return v.Encode(), nil
	}
}
