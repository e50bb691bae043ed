// Package validate attaches structural errors to every node of a form tree.
// Errors are recomputed from scratch on each pass: whatever a node carried
// before is replaced, never accumulated.
package validate

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// Option configures a validation pass.
type Option func(*config)

type config struct {
	skipHidden bool
}

// SkipHidden leaves hidden nodes and their subtrees without errors. It suits
// forms whose visibility is toggled by decoders at runtime.
func SkipHidden() Option {
	return func(cfg *config) {
		cfg.skipHidden = true
	}
}

// Validate returns a copy of tree in which every node carries its current
// structural errors, and whether the whole tree is free of them.
func Validate[ID comparable](tree field.Node[ID], options ...Option) (field.Node[ID], bool) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return validateNode(tree, cfg)
}

// Collect returns every error attached to tree in depth-first pre-order.
func Collect[ID comparable](tree field.Node[ID]) field.Errors[ID] {
	var out field.Errors[ID]
	field.Walk(tree, func(_ field.Path, node field.Node[ID]) bool {
		out = append(out, node.Errors...)
		return true
	})
	return out
}

// Node computes the structural errors of a single node, ignoring children.
func Node[ID comparable](node field.Node[ID]) field.Errors[ID] {
	var errs field.Errors[ID]
	if node.Required && node.Value.IsBlank() && !node.Type.IsContainer() {
		errs = append(errs, field.NewIsBlank(node.Identifier))
	}
	if rangeErr, ok := checkRange(node); ok {
		errs = append(errs, rangeErr)
	}
	if node.Type.HasOptions() && len(node.Options) == 0 {
		errs = append(errs, field.NewNoOptionsProvided(node.Identifier))
	}
	return errs
}

func validateNode[ID comparable](node field.Node[ID], cfg config) (field.Node[ID], bool) {
	if cfg.skipHidden && node.Hidden {
		return clearErrors(node), true
	}

	node.Errors = Node(node)
	ok := len(node.Errors) == 0

	if len(node.Children) > 0 {
		children := make([]field.Node[ID], len(node.Children))
		for i, child := range node.Children {
			validated, childOK := validateNode(child, cfg)
			children[i] = validated
			ok = ok && childOK
		}
		node.Children = children
	}
	return node, ok
}

func clearErrors[ID comparable](node field.Node[ID]) field.Node[ID] {
	node.Errors = nil
	if len(node.Children) > 0 {
		children := make([]field.Node[ID], len(node.Children))
		for i, child := range node.Children {
			children[i] = clearErrors(child)
		}
		node.Children = children
	}
	return node
}

// checkRange reports at most one of NotInRange, TooSmall or TooLarge. A
// bound that is blank, or not comparable with the value, is no constraint.
func checkRange[ID comparable](node field.Node[ID]) (field.Error[ID], bool) {
	v := node.Value
	if v.IsBlank() {
		return field.Error[ID]{}, false
	}

	belowMin := false
	if cmp, ok := value.Compare(v, node.Min); ok && cmp < 0 {
		belowMin = true
	}
	aboveMax := false
	if cmp, ok := value.Compare(v, node.Max); ok && cmp > 0 {
		aboveMax = true
	}

	switch {
	case belowMin && aboveMax:
		return field.NewValueNotInRange(node.Identifier, v, node.Min, node.Max), true
	case belowMin:
		return field.NewValueTooSmall(node.Identifier, v, node.Min), true
	case aboveMax:
		return field.NewValueTooLarge(node.Identifier, v, node.Max), true
	default:
		return field.Error[ID]{}, false
	}
}
