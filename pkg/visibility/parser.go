package visibility

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formkit/pkg/decode"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/jsonform"
)

// Option configures the visibility parser.
type Option func(*config)

type config struct {
	extras map[string]any
}

// WithExtras exposes extras to rules under the "extras." prefix.
func WithExtras(extras map[string]any) Option {
	return func(cfg *config) {
		cfg.extras = extras
	}
}

// Parser evaluates every rule against the JSON projection of the node it runs
// on and hides the nodes whose rule is false, revealing the others. Rules are
// applied in identifier order. A rule that fails to evaluate reports a
// CustomError on its node; a rule whose identifier is missing reports
// InputNotFound. Both still let the remaining rules apply.
func Parser[ID comparable](rules map[ID]string, ev Evaluator, options ...Option) decode.Parser[ID, struct{}] {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	ids := sortedIDs(rules)

	return func(node field.Node[ID]) (field.Node[ID], struct{}, field.Errors[ID]) {
		if len(rules) == 0 {
			return node, struct{}{}, nil
		}
		if ev == nil {
			return node, struct{}{}, field.Errors[ID]{field.NewCustomError(node.Identifier, "visibility: evaluator is nil")}
		}

		_, values, errs := jsonform.Parser[ID]()(node)
		if len(errs) > 0 {
			return node, struct{}{}, errs
		}
		ctx := Context{Values: values, Extras: cfg.extras}

		for _, id := range ids {
			visible, err := ev.Eval(fmt.Sprint(id), rules[id], ctx)
			if err != nil {
				errs = errs.Append(field.NewCustomError(field.Ident(id), err.Error()))
				continue
			}
			updated, ok := field.UpdateByIdentifier(node, id, func(n field.Node[ID]) field.Node[ID] {
				n.Hidden = !visible
				return n
			})
			if !ok {
				errs = errs.Append(field.NewInputNotFound(id))
				continue
			}
			node = updated
		}
		return node, struct{}{}, errs
	}
}

// Apply runs Parser over tree and returns the rewritten tree. The error is a
// field.Errors when any rule failed; the tree still reflects the rules that
// succeeded.
func Apply[ID comparable](tree field.Node[ID], rules map[ID]string, ev Evaluator, options ...Option) (field.Node[ID], error) {
	out, _, errs := Parser(rules, ev, options...)(tree)
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// Checker is implemented by evaluators that can validate a rule without
// evaluating it.
type Checker interface {
	Check(rule string) error
}

// Check validates every rule with c and returns the failures keyed by id,
// or nil when every rule is well formed.
func Check[ID comparable](rules map[ID]string, c Checker) map[ID]error {
	var failures map[ID]error
	for _, id := range sortedIDs(rules) {
		if err := c.Check(rules[id]); err != nil {
			if failures == nil {
				failures = make(map[ID]error)
			}
			failures[id] = err
		}
	}
	return failures
}

func sortedIDs[ID comparable](rules map[ID]string) []ID {
	ids := make([]ID, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return fmt.Sprint(ids[i]) < fmt.Sprint(ids[j])
	})
	return ids
}
