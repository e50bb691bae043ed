package jsonform

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
)

// NamePaths maps every dotted name chain in tree to the structural path of
// the node it names. Repeatable children are addressed by their index
// ("items.0.title"). Unnamed groups add no segment; unnamed leaves and
// anything below an unnamed repeatable are not addressable.
func NamePaths[ID comparable](tree field.Node[ID]) map[string]field.Path {
	dest := make(map[string]field.Path)
	collectNamePaths(tree, field.Path{}, "", dest)
	return dest
}

func collectNamePaths[ID comparable](node field.Node[ID], path field.Path, prefix string, dest map[string]field.Path) {
	name := strings.TrimSpace(node.Name)
	scope := prefix
	if name != "" {
		scope = joinPath(prefix, name)
		if _, exists := dest[scope]; !exists {
			dest[scope] = path
		}
	}

	switch node.Type {
	case field.InputGroup:
		for i, child := range node.Children {
			collectNamePaths(child, path.Child(i), scope, dest)
		}
	case field.InputRepeatable:
		if name == "" {
			return
		}
		for i, child := range node.Children {
			collectItemPaths(child, path.Child(i), joinPath(scope, strconv.Itoa(i)), dest)
		}
	}
}

func collectItemPaths[ID comparable](item field.Node[ID], path field.Path, itemPath string, dest map[string]field.Path) {
	dest[itemPath] = path
	switch item.Type {
	case field.InputGroup:
		for i, child := range item.Children {
			collectNamePaths(child, path.Child(i), itemPath, dest)
		}
	case field.InputRepeatable:
		for i, child := range item.Children {
			collectItemPaths(child, path.Child(i), joinPath(itemPath, strconv.Itoa(i)), dest)
		}
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
