// Package decode extracts typed values from a form tree. A Parser reads the
// node it is given and may rewrite it; it always hands back the (possibly
// rewritten) node together with either a value or a non-empty error list.
//
// Applicative combinators (Map2 through Map8, AndMap) run every side and
// report the union of their errors, so one pass surfaces every failing
// field. Monadic combinators (AndThen, AndUpdate) stop at the first failure
// because the continuation needs the value it failed to produce.
//
// The value parsers (String, Int, Float, Bool, Time) fail with IsBlank on a
// blank input and with ParseError on a value of the wrong kind. Wrap them in
// Maybe for inputs that may be left empty.
package decode

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/validate"
)

// Parser decodes an A from a node. A non-empty error list means failure, in
// which case the returned A is meaningless.
type Parser[ID comparable, A any] func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID])

// Run applies p to tree and returns everything it produced.
func Run[ID comparable, A any](p Parser[ID, A], tree field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
	return p(tree)
}

// Parse applies p to tree and discards any rewrite. The error, when not nil,
// is a field.Errors[ID].
func Parse[ID comparable, A any](p Parser[ID, A], tree field.Node[ID]) (A, error) {
	_, out, errs := p(tree)
	if len(errs) > 0 {
		var zero A
		return zero, errs
	}
	return out, nil
}

// ValidateAndParse validates tree first. When the validator finds structural
// errors it returns the validated tree and all of them without running p.
// Otherwise p runs against the validated tree and both its rewritten tree and
// result are returned.
func ValidateAndParse[ID comparable, A any](p Parser[ID, A], tree field.Node[ID], options ...validate.Option) (field.Node[ID], A, error) {
	validated, ok := validate.Validate(tree, options...)
	if !ok {
		var zero A
		return validated, zero, validate.Collect(validated)
	}
	node, out, errs := p(validated)
	if len(errs) > 0 {
		var zero A
		return node, zero, errs
	}
	return node, out, nil
}

// Succeed always produces a and never touches the node.
func Succeed[ID comparable, A any](a A) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		return node, a, nil
	}
}

// Fail always fails with a CustomError tagged with the node's identifier.
func Fail[ID comparable, A any](message string) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		var zero A
		return node, zero, field.Errors[ID]{field.NewCustomError(node.Identifier, message)}
	}
}

// Lazy defers building a parser until it runs, for recursive structures.
func Lazy[ID comparable, A any](build func() Parser[ID, A]) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		return build()(node)
	}
}

// Rewrite replaces the node with fn(node) and succeeds with no value.
func Rewrite[ID comparable](fn func(field.Node[ID]) field.Node[ID]) Parser[ID, struct{}] {
	return func(node field.Node[ID]) (field.Node[ID], struct{}, field.Errors[ID]) {
		return fn(node), struct{}{}, nil
	}
}

// WriteErrors runs p and, when it fails, stores its errors on the node p ran
// against so a renderer can display them next to the input.
func WriteErrors[ID comparable, A any](p Parser[ID, A]) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		node, out, errs := p(node)
		if len(errs) > 0 {
			node.Errors = field.Merge(node.Errors, errs)
		}
		return node, out, errs
	}
}
