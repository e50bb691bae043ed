package field

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/value"
)

// Path addresses a node by the child indices leading to it from the root.
// The empty path is the root itself.
type Path []int

// Child returns a new path extended by index i.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path of the containing node and the index of the last
// step. ok is false for the root path.
func (p Path) Parent() (Path, int, bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	parent := make(Path, len(p)-1)
	copy(parent, p[:len(p)-1])
	return parent, p[len(p)-1], true
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// Get resolves path below tree.
func Get[ID comparable](tree Node[ID], path Path) (Node[ID], bool) {
	current := tree
	for _, idx := range path {
		if idx < 0 || idx >= len(current.Children) {
			return Node[ID]{}, false
		}
		current = current.Children[idx]
	}
	return current, true
}

// Walk visits tree in depth-first pre-order. Returning false from fn skips
// the node's children. Templates are not visited.
func Walk[ID comparable](tree Node[ID], fn func(path Path, node Node[ID]) bool) {
	walk(tree, Path{}, fn)
}

func walk[ID comparable](node Node[ID], path Path, fn func(Path, Node[ID]) bool) {
	if !fn(path, node) {
		return
	}
	for i, child := range node.Children {
		walk(child, path.Child(i), fn)
	}
}

// FindByIdentifier returns the first node carrying id in a depth-first,
// pre-order traversal, with the path leading to it.
func FindByIdentifier[ID comparable](id ID, tree Node[ID]) (Node[ID], Path, bool) {
	if tree.HasIdentifier(id) {
		return tree, Path{}, true
	}
	for i, child := range tree.Children {
		if found, path, ok := FindByIdentifier(id, child); ok {
			return found, append(Path{i}, path...), true
		}
	}
	return Node[ID]{}, nil, false
}

// UpdateAt returns a tree whose node at path is replaced by fn(node). Every
// ancestor on the path is copied; all other subtrees are shared. An
// unresolved path returns tree unchanged.
func UpdateAt[ID comparable](tree Node[ID], path Path, fn func(Node[ID]) Node[ID]) Node[ID] {
	updated, ok := updateAt(tree, path, fn)
	if !ok {
		return tree
	}
	return updated
}

func updateAt[ID comparable](node Node[ID], path Path, fn func(Node[ID]) Node[ID]) (Node[ID], bool) {
	if len(path) == 0 {
		return fn(node), true
	}
	idx := path[0]
	if idx < 0 || idx >= len(node.Children) {
		return node, false
	}
	child, ok := updateAt(node.Children[idx], path[1:], fn)
	if !ok {
		return node, false
	}
	children := make([]Node[ID], len(node.Children))
	copy(children, node.Children)
	children[idx] = child
	node.Children = children
	return node, true
}

// UpdateByIdentifier applies fn to the first node carrying id. ok is false
// when no node carries it, in which case tree is returned unchanged.
func UpdateByIdentifier[ID comparable](tree Node[ID], id ID, fn func(Node[ID]) Node[ID]) (Node[ID], bool) {
	_, path, ok := FindByIdentifier(id, tree)
	if !ok {
		return tree, false
	}
	return UpdateAt(tree, path, fn), true
}

// InsertChild returns a tree with child inserted under the container at path
// at position idx (clamped to the valid range).
func InsertChild[ID comparable](tree Node[ID], path Path, idx int, child Node[ID]) Node[ID] {
	return UpdateAt(tree, path, func(parent Node[ID]) Node[ID] {
		if idx < 0 || idx > len(parent.Children) {
			idx = len(parent.Children)
		}
		children := make([]Node[ID], 0, len(parent.Children)+1)
		children = append(children, parent.Children[:idx]...)
		children = append(children, child)
		children = append(children, parent.Children[idx:]...)
		parent.Children = children
		return parent
	})
}

// RemoveChild returns a tree without the node at path. Removing the root or
// an unresolved path returns tree unchanged.
func RemoveChild[ID comparable](tree Node[ID], path Path) Node[ID] {
	parentPath, idx, ok := path.Parent()
	if !ok {
		return tree
	}
	return UpdateAt(tree, parentPath, func(parent Node[ID]) Node[ID] {
		if idx < 0 || idx >= len(parent.Children) {
			return parent
		}
		children := make([]Node[ID], 0, len(parent.Children)-1)
		children = append(children, parent.Children[:idx]...)
		children = append(children, parent.Children[idx+1:]...)
		parent.Children = children
		return parent
	})
}

// Count returns the number of nodes in tree, templates excluded.
func Count[ID comparable](tree Node[ID]) int {
	total := 0
	Walk(tree, func(Path, Node[ID]) bool {
		total++
		return true
	})
	return total
}

// MapIdentifiers translates every identifier in tree, including those inside
// templates and attached errors. It lets a sub-form built with its own
// identifier type be embedded in a parent form.
func MapIdentifiers[A, B comparable](tree Node[A], fn func(A) B) Node[B] {
	out := Node[B]{
		Type:       tree.Type,
		Identifier: mapIdent(tree.Identifier, fn),
		Attributes: tree.Attributes,
		Errors:     mapErrors(tree.Errors, fn),
		Touched:    tree.Touched,
	}
	if len(tree.Children) > 0 {
		out.Children = make([]Node[B], len(tree.Children))
		for i, child := range tree.Children {
			out.Children[i] = MapIdentifiers(child, fn)
		}
	}
	if tree.Template != nil {
		tpl := MapIdentifiers(*tree.Template, fn)
		out.Template = &tpl
	}
	return out
}

// MapValues rewrites the value of every node in tree, templates included.
func MapValues[ID comparable](tree Node[ID], fn func(value.Value) value.Value) Node[ID] {
	tree.Value = fn(tree.Value)
	if len(tree.Children) > 0 {
		children := make([]Node[ID], len(tree.Children))
		for i, child := range tree.Children {
			children[i] = MapValues(child, fn)
		}
		tree.Children = children
	}
	if tree.Template != nil {
		tpl := MapValues(*tree.Template, fn)
		tree.Template = &tpl
	}
	return tree
}

func mapIdent[A, B comparable](id *A, fn func(A) B) *B {
	if id == nil {
		return nil
	}
	return Ident(fn(*id))
}

func mapErrors[A, B comparable](errs Errors[A], fn func(A) B) Errors[B] {
	if len(errs) == 0 {
		return nil
	}
	out := make(Errors[B], len(errs))
	for i, err := range errs {
		out[i] = mapError(err, fn)
	}
	return out
}

func mapError[A, B comparable](err Error[A], fn func(A) B) Error[B] {
	out := Error[B]{
		Kind:       err.Kind,
		Identifier: mapIdent(err.Identifier, fn),
		Value:      err.Value,
		Min:        err.Min,
		Max:        err.Max,
		Message:    err.Message,
		Index:      err.Index,
		Missing:    mapIdent(err.Missing, fn),
	}
	if err.Inner != nil {
		inner := mapError(*err.Inner, fn)
		out.Inner = &inner
	}
	return out
}
