package jsonform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// ErrNotObject is returned by ImportJSON when the document root is not an
// object.
var ErrNotObject = errors.New("jsonform: document root must be an object")

// Import writes data into the leaves addressed by its name chains and returns
// the populated tree. Objects descend into named groups, arrays resize the
// addressed repeatable to their length and fill its children in order, and
// scalars are read as the leaf's value kind. Keys that address nothing, or
// whose shape does not fit the node, fail individually with a CustomError;
// every other key is still applied.
func Import[ID comparable](tree field.Node[ID], data map[string]any) (field.Node[ID], field.Errors[ID]) {
	imp := importer[ID]{tree: tree}
	imp.paths = NamePaths(tree)
	imp.object("", data)
	return imp.tree, imp.errs
}

// ImportJSON decodes a JSON object and imports it. The returned error is
// either a decoding error or the field.Errors of the import.
func ImportJSON[ID comparable](tree field.Node[ID], data []byte) (field.Node[ID], error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return tree, fmt.Errorf("jsonform: decode: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return tree, ErrNotObject
	}
	out, errs := Import(tree, obj)
	return out, errs.Err()
}

type importer[ID comparable] struct {
	tree  field.Node[ID]
	paths map[string]field.Path
	errs  field.Errors[ID]
}

func (imp *importer[ID]) fail(id *ID, format string, args ...any) {
	imp.errs = imp.errs.Append(field.NewCustomError(id, fmt.Sprintf(format, args...)))
}

func (imp *importer[ID]) object(prefix string, data map[string]any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		imp.entry(joinPath(prefix, key), data[key])
	}
}

func (imp *importer[ID]) entry(name string, raw any) {
	path, ok := imp.paths[name]
	if !ok {
		imp.fail(nil, "no input named %q", name)
		return
	}
	target, _ := field.Get(imp.tree, path)

	switch typed := raw.(type) {
	case map[string]any:
		if target.Type != field.InputGroup {
			imp.fail(target.Identifier, "%q is not a group", name)
			return
		}
		imp.object(name, typed)

	case []any:
		if target.Type != field.InputRepeatable {
			imp.fail(target.Identifier, "%q is not repeatable", name)
			return
		}
		if !imp.resize(path, len(typed)) {
			imp.fail(target.Identifier, "%q cannot hold %d items", name, len(typed))
			return
		}
		for i, item := range typed {
			imp.entry(joinPath(name, fmt.Sprint(i)), item)
		}

	default:
		if target.Type.IsContainer() {
			imp.fail(target.Identifier, "%q is a group, not an input", name)
			return
		}
		v, ok := readLeaf(target, raw)
		if !ok {
			imp.fail(target.Identifier, "cannot read %v as %s for %q", raw, target.Type.ValueKind(), name)
			return
		}
		imp.tree = field.UpdateAt(imp.tree, path, func(n field.Node[ID]) field.Node[ID] {
			n.Value = v
			return n
		})
	}
}

// resize makes the repeatable at path hold exactly n children, cloning its
// template to grow. Counts outside the repeatable bounds are refused. Name
// paths are recomputed since indices below path change.
func (imp *importer[ID]) resize(path field.Path, n int) bool {
	node, _ := field.Get(imp.tree, path)
	if n < node.RepeatableMin || (node.RepeatableMax > 0 && n > node.RepeatableMax) {
		return false
	}
	if len(node.Children) == n {
		return true
	}
	if n > len(node.Children) && node.Template == nil {
		return false
	}
	imp.tree = field.UpdateAt(imp.tree, path, func(rep field.Node[ID]) field.Node[ID] {
		children := make([]field.Node[ID], 0, n)
		if n < len(rep.Children) {
			children = append(children, rep.Children[:n]...)
		} else {
			children = append(children, rep.Children...)
		}
		for len(children) < n {
			child, _ := rep.Instantiate()
			children = append(children, child)
		}
		rep.Children = children
		return rep
	})
	imp.paths = NamePaths(imp.tree)
	return true
}

// readLeaf converts a decoded scalar for node. Option inputs first try to
// match an option value of the same kind so projected values import back.
func readLeaf[ID comparable](node field.Node[ID], raw any) (value.Value, bool) {
	if node.Type.HasOptions() {
		for _, option := range node.Options {
			if candidate, ok := value.FromAny(option.Value.Kind(), raw); ok && candidate.Equal(option.Value) {
				return option.Value, true
			}
		}
	}
	return value.FromAny(node.Type.ValueKind(), raw)
}
