package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

func sampleTree() field.Node[string] {
	fruit := field.Text("fruit", field.Name("fruit"), field.Label("Fruit"))
	return field.Group(nil,
		field.Text("name", field.Name("name"), field.Required(true)),
		field.Group([]field.Attribute{field.Name("address")},
			field.Text("street", field.Name("street")),
			field.Integer("zip", field.Name("zip")),
		).WithIdentifier("address"),
		field.Repeatable(
			[]field.Attribute{field.Name("fruits"), field.RepeatableMin(1), field.RepeatableMax(3)},
			fruit,
		).WithIdentifier("fruits"),
	)
}

func TestLeafAttributesLastWriteWins(t *testing.T) {
	node := field.Leaf[string](field.InputText,
		field.Label("First"),
		field.Required(true),
		field.Label("Second"),
		field.Required(false),
	)

	if node.Label != "Second" {
		t.Fatalf("expected last label to win, got %q", node.Label)
	}
	if node.Required {
		t.Fatalf("expected last required flag to win")
	}
	if node.Identifier != nil {
		t.Fatalf("expected leaf without identifier")
	}
}

func TestRepeatablePadsToMinimum(t *testing.T) {
	tpl := field.Text("item", field.Name("item"))
	node := field.Repeatable([]field.Attribute{field.RepeatableMin(2)}, tpl)

	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	if node.Template == nil {
		t.Fatalf("expected template to be stored")
	}
	if diff := cmp.Diff(tpl, node.Children[0]); diff != "" {
		t.Fatalf("padded child mismatch (-want +got):\n%s", diff)
	}

	capped := field.Repeatable([]field.Attribute{field.RepeatableMin(1), field.RepeatableMax(2)}, tpl, tpl, tpl, tpl)
	if len(capped.Children) != 2 {
		t.Fatalf("expected initial children to be capped at 2, got %d", len(capped.Children))
	}
	if capped.CanAdd() {
		t.Fatalf("expected a full repeatable to refuse more children")
	}
}

func TestFindByIdentifierDepthFirst(t *testing.T) {
	tree := sampleTree()

	node, path, ok := field.FindByIdentifier("zip", tree)
	if !ok {
		t.Fatalf("expected zip to be found")
	}
	if node.Type != field.InputInteger {
		t.Fatalf("expected integer node, got %s", node.Type)
	}
	if diff := cmp.Diff(field.Path{1, 1}, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}

	node, path, ok = field.FindByIdentifier("fruit", tree)
	if !ok {
		t.Fatalf("expected first fruit child to be found")
	}
	if diff := cmp.Diff(field.Path{2, 0}, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if node.Label != "Fruit" {
		t.Fatalf("unexpected node %+v", node)
	}

	if _, _, ok := field.FindByIdentifier("missing", tree); ok {
		t.Fatalf("expected missing identifier to be absent")
	}
}

func TestUpdateAtSharesUntouchedSubtrees(t *testing.T) {
	tree := sampleTree()

	updated := field.UpdateAt(tree, field.Path{1, 0}, func(n field.Node[string]) field.Node[string] {
		return n.WithValue(value.String("Main St"))
	})

	street, _ := field.Get(updated, field.Path{1, 0})
	if got, _ := street.Value.ToString(); got != "Main St" {
		t.Fatalf("expected updated street, got %q", got)
	}

	original, _ := field.Get(tree, field.Path{1, 0})
	if !original.Value.IsBlank() {
		t.Fatalf("expected original tree to stay untouched")
	}

	if &updated.Children[2].Children[0] != &tree.Children[2].Children[0] {
		t.Fatalf("expected sibling subtree to be shared")
	}
}

func TestUpdateAtUnresolvedPathIsNoop(t *testing.T) {
	tree := sampleTree()
	calls := 0
	updated := field.UpdateAt(tree, field.Path{7, 1}, func(n field.Node[string]) field.Node[string] {
		calls++
		return n
	})
	if calls != 0 {
		t.Fatalf("expected fn not to run for unresolved path")
	}
	if diff := cmp.Diff(tree, updated); diff != "" {
		t.Fatalf("tree changed (-want +got):\n%s", diff)
	}
}

func TestInsertAndRemoveChild(t *testing.T) {
	tree := sampleTree()
	extra := field.Text("extra")

	inserted := field.InsertChild(tree, field.Path{2}, -1, extra)
	if got := len(inserted.Children[2].Children); got != 2 {
		t.Fatalf("expected 2 repeatable children, got %d", got)
	}

	removed := field.RemoveChild(inserted, field.Path{2, 0})
	if got := len(removed.Children[2].Children); got != 1 {
		t.Fatalf("expected 1 repeatable child, got %d", got)
	}
	if !removed.Children[2].Children[0].HasIdentifier("extra") {
		t.Fatalf("expected the first child to be removed")
	}
	if got := len(inserted.Children[2].Children); got != 2 {
		t.Fatalf("expected previous version to keep its children")
	}
}

func TestMapIdentifiers(t *testing.T) {
	tree := sampleTree()
	tree.Errors = field.Errors[string]{field.NewIsBlank(field.Ident("root"))}

	mapped := field.MapIdentifiers(tree, func(id string) int { return len(id) })

	_, path, ok := field.FindByIdentifier(6, mapped)
	if !ok {
		t.Fatalf("expected translated identifier to be found")
	}
	if diff := cmp.Diff(field.Path{1, 0}, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if got := *mapped.Errors[0].Identifier; got != 4 {
		t.Fatalf("expected error identifier to be translated, got %d", got)
	}
	if mapped.Children[2].Template == nil || *mapped.Children[2].Template.Identifier != 5 {
		t.Fatalf("expected template identifier to be translated")
	}
}

func TestMapValues(t *testing.T) {
	tree := field.Group(nil,
		field.Text("a", field.StringValue("x")),
		field.Text("b"),
	)
	mapped := field.MapValues(tree, func(v value.Value) value.Value {
		if v.IsBlank() {
			return value.String("default")
		}
		return v
	})
	if got := mapped.Children[1].Value.Raw(); got != "default" {
		t.Fatalf("expected blank to be replaced, got %q", got)
	}
	if got := mapped.Children[0].Value.Raw(); got != "x" {
		t.Fatalf("expected existing value to be kept, got %q", got)
	}
}

func TestCountAndWalk(t *testing.T) {
	tree := sampleTree()
	if got := field.Count(tree); got != 7 {
		t.Fatalf("expected 7 nodes, got %d", got)
	}

	var visited []string
	field.Walk(tree, func(_ field.Path, n field.Node[string]) bool {
		if n.Identifier != nil {
			visited = append(visited, *n.Identifier)
		}
		return n.Type != field.InputRepeatable
	})
	want := []string{"name", "address", "street", "zip", "fruits"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupResolvesOptions(t *testing.T) {
	node := field.Select("color", field.Options(
		field.Option{Label: "Red", Value: value.Int(1)},
		field.Option{Label: "Blue", Value: value.Int(2)},
	))

	got, ok := node.Lookup(value.String("Blue"))
	if !ok {
		t.Fatalf("expected label lookup to succeed")
	}
	if diff := cmp.Diff(value.Int(2), got); diff != "" {
		t.Fatalf("lookup mismatch (-want +got):\n%s", diff)
	}

	got, ok = node.Lookup(value.Int(1))
	if !ok || !got.Equal(value.Int(1)) {
		t.Fatalf("expected option value to resolve to itself")
	}

	if _, ok := node.Lookup(value.String("Green")); ok {
		t.Fatalf("expected unknown label to be rejected")
	}
}

func TestErrorsMergeDeduplicates(t *testing.T) {
	a := field.NewIsBlank(field.Ident("a"))
	b := field.NewCustomError(field.Ident("b"), "nope")

	merged := field.Merge(field.Errors[string]{a, b}, field.Errors[string]{b, a, field.NewIsBlank(field.Ident("a"))})
	want := field.Errors[string]{a, b}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if merged.Err() == nil {
		t.Fatalf("expected non-empty list to be an error")
	}
	if (field.Errors[string]{}).Err() != nil {
		t.Fatalf("expected empty list to be nil error")
	}
}
