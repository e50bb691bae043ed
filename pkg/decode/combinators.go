package decode

import "github.com/goliatone/go-formkit/pkg/field"

// Map transforms the result of p.
func Map[ID comparable, A, R any](f func(A) R, p Parser[ID, A]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, errs := p(node)
		if len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a), nil
	}
}

// Map2 runs both parsers, threading the node through them, and combines
// their results. On failure it reports the union of both error lists.
func Map2[ID comparable, A, B, R any](f func(A, B) R, pa Parser[ID, A], pb Parser[ID, B]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		if errs := field.Merge(ea, eb); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b), nil
	}
}

// Map3 is Map2 over three parsers.
func Map3[ID comparable, A, B, C, R any](f func(A, B, C) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		if errs := field.Merge(ea, eb, ec); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c), nil
	}
}

// Map4 is Map2 over four parsers.
func Map4[ID comparable, A, B, C, D, R any](f func(A, B, C, D) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C], pd Parser[ID, D]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		node, d, ed := pd(node)
		if errs := field.Merge(ea, eb, ec, ed); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c, d), nil
	}
}

// Map5 is Map2 over five parsers.
func Map5[ID comparable, A, B, C, D, E, R any](f func(A, B, C, D, E) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C], pd Parser[ID, D], pe Parser[ID, E]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		node, d, ed := pd(node)
		node, e, ee := pe(node)
		if errs := field.Merge(ea, eb, ec, ed, ee); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c, d, e), nil
	}
}

// Map6 is Map2 over six parsers.
func Map6[ID comparable, A, B, C, D, E, F, R any](f func(A, B, C, D, E, F) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C], pd Parser[ID, D], pe Parser[ID, E], pf Parser[ID, F]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		node, d, ed := pd(node)
		node, e, ee := pe(node)
		node, g, eg := pf(node)
		if errs := field.Merge(ea, eb, ec, ed, ee, eg); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c, d, e, g), nil
	}
}

// Map7 is Map2 over seven parsers.
func Map7[ID comparable, A, B, C, D, E, F, G, R any](f func(A, B, C, D, E, F, G) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C], pd Parser[ID, D], pe Parser[ID, E], pf Parser[ID, F], pg Parser[ID, G]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		node, d, ed := pd(node)
		node, e, ee := pe(node)
		node, g1, ef := pf(node)
		node, g2, eg := pg(node)
		if errs := field.Merge(ea, eb, ec, ed, ee, ef, eg); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c, d, e, g1, g2), nil
	}
}

// Map8 is Map2 over eight parsers.
func Map8[ID comparable, A, B, C, D, E, F, G, H, R any](f func(A, B, C, D, E, F, G, H) R, pa Parser[ID, A], pb Parser[ID, B], pc Parser[ID, C], pd Parser[ID, D], pe Parser[ID, E], pf Parser[ID, F], pg Parser[ID, G], ph Parser[ID, H]) Parser[ID, R] {
	return func(node field.Node[ID]) (field.Node[ID], R, field.Errors[ID]) {
		node, a, ea := pa(node)
		node, b, eb := pb(node)
		node, c, ec := pc(node)
		node, d, ed := pd(node)
		node, e, ee := pe(node)
		node, g1, ef := pf(node)
		node, g2, eg := pg(node)
		node, h, eh := ph(node)
		if errs := field.Merge(ea, eb, ec, ed, ee, ef, eg, eh); len(errs) > 0 {
			var zero R
			return node, zero, errs
		}
		return node, f(a, b, c, d, e, g1, g2, h), nil
	}
}

// AndMap applies the function produced by pf to the value produced by pa.
// Both run, pf first, and their errors are merged. It supports pipelines of
// any arity:
//
//	decode.AndMap(age, decode.AndMap(name, decode.Succeed[string](curried)))
func AndMap[ID comparable, A, B any](pa Parser[ID, A], pf Parser[ID, func(A) B]) Parser[ID, B] {
	return Map2(func(f func(A) B, a A) B { return f(a) }, pf, pa)
}

// AndThen runs p and, only if it succeeds, the parser chosen from its
// result. The first failure is returned as is.
func AndThen[ID comparable, A, B any](next func(A) Parser[ID, B], p Parser[ID, A]) Parser[ID, B] {
	return func(node field.Node[ID]) (field.Node[ID], B, field.Errors[ID]) {
		node, a, errs := p(node)
		if len(errs) > 0 {
			var zero B
			return node, zero, errs
		}
		return next(a)(node)
	}
}

// AndUpdate is AndThen with access to the node: next may rewrite it before
// the continuation runs against the rewrite. Conditional visibility is built
// from it.
func AndUpdate[ID comparable, A, B any](next func(field.Node[ID], A) (field.Node[ID], Parser[ID, B]), p Parser[ID, A]) Parser[ID, B] {
	return func(node field.Node[ID]) (field.Node[ID], B, field.Errors[ID]) {
		node, a, errs := p(node)
		if len(errs) > 0 {
			var zero B
			return node, zero, errs
		}
		node, cont := next(node, a)
		return cont(node)
	}
}

// OneOf tries each parser against the same node and keeps the first success.
// When all fail it reports the union of their errors and leaves the node as
// it was.
func OneOf[ID comparable, A any](parsers ...Parser[ID, A]) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		var errs field.Errors[ID]
		for _, p := range parsers {
			rewritten, out, pErrs := p(node)
			if len(pErrs) == 0 {
				return rewritten, out, nil
			}
			errs = field.Merge(errs, pErrs)
		}
		var zero A
		if len(errs) == 0 {
			errs = field.Errors[ID]{field.NewCustomError(node.Identifier, "no parser matched")}
		}
		return node, zero, errs
	}
}
