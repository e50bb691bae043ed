package decode

import "github.com/goliatone/go-formkit/pkg/field"

// Field locates the first node carrying id below the current node, runs p on
// it and splices p's rewrite back at the same place.
func Field[ID comparable, A any](id ID, p Parser[ID, A]) Parser[ID, A] {
	return func(node field.Node[ID]) (field.Node[ID], A, field.Errors[ID]) {
		found, path, ok := field.FindByIdentifier(id, node)
		if !ok {
			var zero A
			return node, zero, field.Errors[ID]{field.NewInputNotFound(id)}
		}
		rewritten, out, errs := p(found)
		node = field.UpdateAt(node, path, func(field.Node[ID]) field.Node[ID] {
			return rewritten
		})
		return node, out, errs
	}
}

// List runs p on every child of the current node, in order. Every child is
// tried; each child error is wrapped in a ListError carrying the child index.
func List[ID comparable, A any](p Parser[ID, A]) Parser[ID, []A] {
	return func(node field.Node[ID]) (field.Node[ID], []A, field.Errors[ID]) {
		if len(node.Children) == 0 {
			return node, []A{}, nil
		}

		children := make([]field.Node[ID], len(node.Children))
		results := make([]A, 0, len(node.Children))
		var errs field.Errors[ID]
		for i, child := range node.Children {
			rewritten, out, childErrs := p(child)
			children[i] = rewritten
			if len(childErrs) > 0 {
				for _, err := range childErrs {
					errs = errs.Append(field.NewListError(i, err))
				}
				continue
			}
			results = append(results, out)
		}

		node.Children = children
		if len(errs) > 0 {
			return node, nil, errs
		}
		return node, results, nil
	}
}

// SetHidden hides or reveals the first node carrying id. A missing id fails
// with InputNotFound.
func SetHidden[ID comparable](id ID, hidden bool) Parser[ID, struct{}] {
	return Field(id, Rewrite(func(n field.Node[ID]) field.Node[ID] {
		n.Hidden = hidden
		return n
	}))
}
