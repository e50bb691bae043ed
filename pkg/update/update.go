package update

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/validate"
	"github.com/goliatone/go-formkit/pkg/value"
)

// Apply returns the tree that results from ev. It never fails: unknown kinds,
// unresolved paths and out-of-bounds structural requests leave tree as it was.
func Apply[ID comparable](tree field.Node[ID], ev Event) field.Node[ID] {
	if _, ok := field.Get(tree, ev.Path); !ok {
		return tree
	}

	switch ev.Kind {
	case KindValueChanged:
		return field.UpdateAt(tree, ev.Path, func(n field.Node[ID]) field.Node[ID] {
			if n.Type.IsContainer() {
				return n
			}
			n.Value = field.ParseInput(n.Type, ev.Value)
			return n
		})

	case KindCheckedChanged:
		return field.UpdateAt(tree, ev.Path, func(n field.Node[ID]) field.Node[ID] {
			if n.Type.IsContainer() {
				return n
			}
			n.Value = value.Bool(ev.Checked)
			return n
		})

	case KindFocused:
		return field.UpdateAt(tree, ev.Path, func(n field.Node[ID]) field.Node[ID] {
			n.Errors = nil
			n.Touched = false
			return n
		})

	case KindBlurred:
		validated, _ := validate.Validate(tree)
		return field.UpdateAt(validated, ev.Path, func(n field.Node[ID]) field.Node[ID] {
			n.Touched = true
			return n
		})

	case KindChildrenAdded:
		return field.UpdateAt(tree, ev.Path, addChild[ID])

	case KindChildrenRemoved:
		return removeChild(tree, ev.Path)

	default:
		return tree
	}
}

// ApplyAll folds events over tree in order.
func ApplyAll[ID comparable](tree field.Node[ID], events ...Event) field.Node[ID] {
	for _, ev := range events {
		tree = Apply(tree, ev)
	}
	return tree
}

func addChild[ID comparable](n field.Node[ID]) field.Node[ID] {
	if !n.CanAdd() {
		return n
	}
	child, ok := n.Instantiate()
	if !ok {
		return n
	}
	children := make([]field.Node[ID], 0, len(n.Children)+1)
	children = append(children, n.Children...)
	n.Children = append(children, child)
	return n
}

func removeChild[ID comparable](tree field.Node[ID], path field.Path) field.Node[ID] {
	parentPath, _, ok := path.Parent()
	if !ok {
		return tree
	}
	parent, ok := field.Get(tree, parentPath)
	if !ok || !parent.CanRemove() {
		return tree
	}
	return field.RemoveChild(tree, path)
}
