package jsonform_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/jsonform"
	"github.com/goliatone/go-formkit/pkg/value"
)

func flatForm() field.Node[string] {
	return field.Group(nil,
		field.Text("name", field.Name("name"), field.StringValue("Ada")),
		field.Integer("age", field.Name("age"), field.IntValue(36)),
		field.Float("score", field.Name("score"), field.FloatValue(9.5)),
		field.Checkbox("agree", field.Name("agree"), field.BoolValue(true)),
		field.Date("born", field.Name("born")),
	)
}

func nestedForm() field.Node[string] {
	address := field.Group([]field.Attribute{field.Name("address")},
		field.Text("street", field.Name("street")),
		field.Text("city", field.Name("city")),
	)
	item := field.Group(nil,
		field.Text("title", field.Name("title")),
		field.Integer("qty", field.Name("qty")),
	)
	return field.Group(nil,
		field.Group(nil, field.Text("name", field.Name("name"))),
		address,
		field.Repeatable([]field.Attribute{field.Name("items"), field.RepeatableMin(1)}, item),
		field.Repeatable([]field.Attribute{field.Name("tags")}, field.Text("tag")),
		field.Text("unnamed"),
	)
}

func TestProjectFlatForm(t *testing.T) {
	got, err := jsonform.Project(flatForm())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	want := map[string]any{
		"name":  "Ada",
		"age":   36,
		"score": 9.5,
		"agree": true,
		"born":  nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := jsonform.Marshal(flatForm())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	blank := field.MapValues(flatForm(), func(value.Value) value.Value { return value.Blank() })
	imported, err := jsonform.ImportJSON(blank, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	again, err := jsonform.Marshal(imported)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if diff := cmp.Diff(string(data), string(again)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectNestedForm(t *testing.T) {
	tree, errs := jsonform.Import(nestedForm(), map[string]any{
		"name":    "Ada",
		"address": map[string]any{"city": "London"},
		"items": []any{
			map[string]any{"title": "pen", "qty": 2},
			map[string]any{"title": "ink"},
		},
		"tags": []any{"a", "b", "c"},
	})
	if len(errs) > 0 {
		t.Fatalf("import: %v", errs)
	}

	got, err := jsonform.Project(tree)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	want := map[string]any{
		"name":    "Ada",
		"address": map[string]any{"street": nil, "city": "London"},
		"items": []any{
			map[string]any{"title": "pen", "qty": 2},
			map[string]any{"title": "ink", "qty": nil},
		},
		"tags": []any{"a", "b", "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestImportShrinksRepeatable(t *testing.T) {
	tree, errs := jsonform.Import(nestedForm(), map[string]any{"tags": []any{"a", "b", "c"}})
	if len(errs) > 0 {
		t.Fatalf("import: %v", errs)
	}
	tree, errs = jsonform.Import(tree, map[string]any{"tags": []any{"z"}})
	if len(errs) > 0 {
		t.Fatalf("import: %v", errs)
	}
	if got := len(tree.Children[3].Children); got != 1 {
		t.Fatalf("expected one tag, got %d", got)
	}
}

func TestImportRejectsIntegerOverflow(t *testing.T) {
	tree, err := jsonform.ImportJSON(flatForm(), []byte(`{"age": 1e300}`))
	var errs field.Errors[string]
	if !errors.As(err, &errs) || len(errs) != 1 || errs[0].Kind != field.CustomError {
		t.Fatalf("expected one custom error, got %v", err)
	}
	if errs[0].Identifier == nil || *errs[0].Identifier != "age" {
		t.Fatalf("expected the error to name age, got %+v", errs[0])
	}
	if got, _ := tree.Children[1].Value.ToInt(); got != 36 {
		t.Fatalf("expected age to keep its value, got %d", got)
	}
}

func TestImportKeepsLargeIntegersExact(t *testing.T) {
	tree, err := jsonform.ImportJSON(flatForm(), []byte(`{"age": 9007199254740993}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diff := cmp.Diff(value.Int(9007199254740993), tree.Children[1].Value); diff != "" {
		t.Fatalf("age mismatch (-want +got):\n%s", diff)
	}
}

func TestImportRespectsRepeatableBounds(t *testing.T) {
	tree, errs := jsonform.Import(nestedForm(), map[string]any{"items": []any{}, "name": "Ada"})

	want := field.Errors[string]{
		field.NewCustomError[string](nil, `"items" cannot hold 0 items`),
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := len(tree.Children[2].Children); got != 1 {
		t.Fatalf("expected items to keep its minimum, got %d", got)
	}
}

func TestImportReportsPerKey(t *testing.T) {
	tree, errs := jsonform.Import(nestedForm(), map[string]any{
		"name":    "Ada",
		"missing": 1,
		"address": "not an object",
	})

	want := field.Errors[string]{
		field.NewCustomError[string](nil, `"address" is a group, not an input`),
		field.NewCustomError[string](nil, `no input named "missing"`),
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got, _ := tree.Children[0].Children[0].Value.ToString(); got != "Ada" {
		t.Fatalf("expected valid keys to be applied, got %q", got)
	}
}

func TestUnnamedRepeatableFails(t *testing.T) {
	tree := field.Group(nil,
		field.Repeatable(nil, field.Text("x")).WithIdentifier("list"),
	)
	_, err := jsonform.Project(tree)

	var errs field.Errors[string]
	if !errors.As(err, &errs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	want := field.Errors[string]{field.NewRepeatableHasNoName(field.Ident("list"))}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectResolvesOptions(t *testing.T) {
	tree := field.Group(nil,
		field.Select("color", field.Name("color"),
			field.Options(
				field.Option{Label: "Red", Value: value.Int(1)},
				field.Option{Label: "Blue", Value: value.Int(2)},
			),
			field.StringValue("Blue"),
		),
	)

	data, err := jsonform.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if diff := cmp.Diff(`{"color":2}`, string(data)); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	imported, err := jsonform.ImportJSON(tree, []byte(`{"color":1}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !imported.Children[0].Value.Equal(value.Int(1)) {
		t.Fatalf("expected option value, got %#v", imported.Children[0].Value)
	}
}

func TestSkipHidden(t *testing.T) {
	tree := field.Group(nil,
		field.Text("a", field.Name("a"), field.StringValue("x")),
		field.Text("b", field.Name("b"), field.StringValue("y"), field.Hidden(true)),
	)
	got, err := jsonform.Project(tree, jsonform.SkipHidden())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "x"}, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestNamePaths(t *testing.T) {
	got := jsonform.NamePaths(nestedForm())
	want := map[string]field.Path{
		"name":           {0, 0},
		"address":        {1},
		"address.street": {1, 0},
		"address.city":   {1, 1},
		"items":          {2},
		"items.0":        {2, 0},
		"items.0.title":  {2, 0, 0},
		"items.0.qty":    {2, 0, 1},
		"tags":           {3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("name paths mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachErrors(t *testing.T) {
	tree, formLevel := jsonform.AttachErrors(nestedForm(), map[string][]string{
		"/body/items/0/title": {"too short", " too short "},
		"address[city]":       {"unknown city"},
		"__all__":             {"try again"},
		"ghost":               {"lost"},
	})

	if diff := cmp.Diff([]string{"try again", "lost"}, formLevel); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	title := tree.Children[2].Children[0].Children[0]
	want := field.Errors[string]{field.NewCustomError(field.Ident("title"), "too short")}
	if diff := cmp.Diff(want, title.Errors); diff != "" {
		t.Fatalf("title errors mismatch (-want +got):\n%s", diff)
	}
	if !title.Touched {
		t.Fatalf("expected attached node to be touched")
	}

	city := tree.Children[1].Children[1]
	want = field.Errors[string]{field.NewCustomError(field.Ident("city"), "unknown city")}
	if diff := cmp.Diff(want, city.Errors); diff != "" {
		t.Fatalf("city errors mismatch (-want +got):\n%s", diff)
	}
}
