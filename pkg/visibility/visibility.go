// Package visibility toggles the Hidden flag of form nodes from rule
// expressions evaluated against the form's current values.
package visibility

// Evaluator decides whether the node carrying id is visible under rule.
type Evaluator interface {
	Eval(id, rule string, ctx Context) (bool, error)
}

// Context is what a rule can read. Values is the JSON projection of the
// form; Extras carries caller data such as roles or feature flags and is
// addressed through the "extras." prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(id, rule string, ctx Context) (bool, error)

// Eval calls fn.
func (fn EvaluatorFunc) Eval(id, rule string, ctx Context) (bool, error) {
	return fn(id, rule, ctx)
}
