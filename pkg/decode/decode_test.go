package decode_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/decode"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

type person struct {
	Name string
	Age  int
}

func personForm(name string, age value.Value) field.Node[string] {
	return field.Group(nil,
		field.Text("name", field.StringValue(name)),
		field.Integer("age", field.Value(age)),
	)
}

var personParser = decode.Map2(
	func(name string, age int) person { return person{Name: name, Age: age} },
	decode.Field("name", decode.String[string]()),
	decode.Field("age", decode.Int[string]()),
)

func asErrors(t *testing.T, err error) field.Errors[string] {
	t.Helper()
	var errs field.Errors[string]
	if !errors.As(err, &errs) {
		t.Fatalf("expected field.Errors, got %T: %v", err, err)
	}
	return errs
}

func TestMap2Succeeds(t *testing.T) {
	got, err := decode.Parse(personParser, personForm("Ada", value.Int(36)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(person{Name: "Ada", Age: 36}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestMap2ReportsEveryFailure(t *testing.T) {
	_, err := decode.Parse(personParser, personForm("", value.Blank()))
	got := asErrors(t, err)

	want := field.Errors[string]{
		field.NewIsBlank(field.Ident("name")),
		field.NewIsBlank(field.Ident("age")),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapUnionDeduplicates(t *testing.T) {
	tree := field.Group(nil, field.Text("a"))
	p := decode.Map3(
		func(a, b, c string) string { return a + b + c },
		decode.Field("a", decode.String[string]()),
		decode.Field("a", decode.String[string]()),
		decode.Field("missing", decode.String[string]()),
	)
	_, err := decode.Parse(p, tree)

	want := field.Errors[string]{
		field.NewIsBlank(field.Ident("a")),
		field.NewInputNotFound("missing"),
	}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestAndThenShortCircuits(t *testing.T) {
	ran := false
	p := decode.AndThen(func(string) decode.Parser[string, int] {
		ran = true
		return decode.Succeed[string](1)
	}, decode.Field("name", decode.String[string]()))

	if _, err := decode.Parse(p, personForm("", value.Blank())); err == nil {
		t.Fatalf("expected failure")
	}
	if ran {
		t.Fatalf("continuation ran after a failure")
	}
}

func TestRepeatableDecodesAsList(t *testing.T) {
	tree := field.Group(nil,
		field.Repeatable(nil,
			field.Text("fruit"),
			field.Text("fruit", field.StringValue("mango")),
			field.Text("fruit", field.StringValue("banana")),
		).WithIdentifier("fruits"),
	)

	got, err := decode.Parse(decode.Field("fruits", decode.List(decode.String[string]())), tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"mango", "banana"}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestListWrapsChildErrors(t *testing.T) {
	tree := field.Repeatable(nil,
		field.Integer("n"),
		field.Integer("n", field.IntValue(1)),
		field.Integer("n"),
		field.Text("n", field.StringValue("x")),
	)

	_, err := decode.Parse(decode.List(decode.Int[string]()), tree)
	want := field.Errors[string]{
		field.NewListError(1, field.NewIsBlank(field.Ident("n"))),
		field.NewListError(2, field.NewParseError(field.Ident("n"), value.String("x"), "expected an integer")),
	}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyListSucceeds(t *testing.T) {
	got, err := decode.Parse(decode.List(decode.String[string]()), field.Repeatable(nil, field.Text("x")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestOptionResolution(t *testing.T) {
	options := field.Options(
		field.Option{Label: "Red", Value: value.Int(1)},
		field.Option{Label: "Blue", Value: value.Int(2)},
	)

	byLabel := field.Select("color", options, field.StringValue("Blue"))
	got, err := decode.Parse(decode.Int[string](), byLabel)
	if err != nil || got != 2 {
		t.Fatalf("expected label to resolve to 2, got %d (%v)", got, err)
	}

	byValue := field.Radio("color", options, field.IntValue(1))
	got, err = decode.Parse(decode.Int[string](), byValue)
	if err != nil || got != 1 {
		t.Fatalf("expected value to resolve to 1, got %d (%v)", got, err)
	}

	strict := field.StrictAutocomplete("color", options, field.StringValue("Green"))
	_, err = decode.Parse(decode.Value[string](), strict)
	want := field.Errors[string]{
		field.NewParseError(field.Ident("color"), value.String("Green"), "value does not match any option"),
	}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValueParsersRejectContainers(t *testing.T) {
	group := field.Group(nil, field.Text("a")).WithIdentifier("g")
	_, err := decode.Parse(decode.String[string](), group)
	want := field.Errors[string]{field.NewIsGroupNotInput(field.Ident("g"))}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMaybe(t *testing.T) {
	p := decode.Maybe(decode.Int[string]())

	got, err := decode.Parse(p, field.Integer("n"))
	if err != nil || got != nil {
		t.Fatalf("expected nil for blank, got %v (%v)", got, err)
	}

	got, err = decode.Parse(p, field.Integer("n", field.IntValue(4)))
	if err != nil || got == nil || *got != 4 {
		t.Fatalf("expected 4, got %v (%v)", got, err)
	}

	_, err = decode.Parse(decode.Int[string](), field.Integer("n"))
	want := field.Errors[string]{field.NewIsBlank(field.Ident("n"))}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("blank without Maybe mismatch (-want +got):\n%s", diff)
	}

	items, err := decode.Parse(decode.Maybe(decode.List(decode.String[string]())), field.Repeatable(nil, field.Text("x")))
	if err != nil || items == nil || len(*items) != 0 {
		t.Fatalf("expected containers to run the inner parser, got %v (%v)", items, err)
	}
}

func TestCustomAndFail(t *testing.T) {
	even := decode.Custom[string](func(v value.Value) (int, error) {
		n, _ := v.ToInt()
		if n%2 != 0 {
			return 0, fmt.Errorf("%d is odd", n)
		}
		return n, nil
	})

	_, err := decode.Parse(even, field.Integer("n", field.IntValue(3)))
	want := field.Errors[string]{field.NewCustomError(field.Ident("n"), "3 is odd")}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	_, err = decode.Parse(decode.Fail[string, int]("nope"), field.Text("x"))
	want = field.Errors[string]{field.NewCustomError(field.Ident("x"), "nope")}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOneOf(t *testing.T) {
	p := decode.OneOf(
		decode.Map(func(i int) string { return fmt.Sprintf("int %d", i) }, decode.Int[string]()),
		decode.String[string](),
	)

	got, err := decode.Parse(p, field.Text("x", field.StringValue("hello")))
	if err != nil || got != "hello" {
		t.Fatalf("expected fallback to string, got %q (%v)", got, err)
	}

	got, err = decode.Parse(p, field.Integer("x", field.IntValue(3)))
	if err != nil || got != "int 3" {
		t.Fatalf("expected first parser to win, got %q (%v)", got, err)
	}
}

func TestFormatRewritesValue(t *testing.T) {
	tree := field.Group(nil, field.Text("code", field.StringValue("ab-12")))
	node, got, errs := decode.Run(decode.Field("code", decode.Format[string](strings.ToUpper)), tree)
	if len(errs) > 0 {
		t.Fatalf("run: %v", errs)
	}
	if got != "AB-12" {
		t.Fatalf("expected formatted result, got %q", got)
	}
	if stored, _ := node.Children[0].Value.ToString(); stored != "AB-12" {
		t.Fatalf("expected formatted value to be stored, got %q", stored)
	}
	if stored, _ := tree.Children[0].Value.ToString(); stored != "ab-12" {
		t.Fatalf("expected input tree to be untouched, got %q", stored)
	}
}

func TestWriteErrorsAttachesToNode(t *testing.T) {
	tree := field.Group(nil,
		field.Password("password", field.StringValue("secret")),
		field.Password("confirm", field.StringValue("secrte")),
	)
	matching := decode.AndThen(func(pw string) decode.Parser[string, string] {
		return decode.Field("confirm", decode.WriteErrors(decode.Custom[string](func(v value.Value) (string, error) {
			if s, _ := v.ToString(); s != pw {
				return "", errors.New("passwords do not match")
			}
			return pw, nil
		})))
	}, decode.Field("password", decode.String[string]()))

	node, _, errs := decode.Run(matching, tree)
	want := field.Errors[string]{field.NewCustomError(field.Ident("confirm"), "passwords do not match")}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, node.Children[1].Errors); diff != "" {
		t.Fatalf("node errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAndParseRequiredField(t *testing.T) {
	tree := field.Group(nil, field.Text("name", field.Required(true)))

	validated, _, err := decode.ValidateAndParse(decode.Field("name", decode.String[string]()), tree)
	want := field.Errors[string]{field.NewIsBlank(field.Ident("name"))}
	if diff := cmp.Diff(want, asErrors(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, validated.Children[0].Errors); diff != "" {
		t.Fatalf("validated tree errors mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionalVisibility(t *testing.T) {
	form := func(contact string) field.Node[string] {
		return field.Group(nil,
			field.Radio("contact", field.StringOptions("email", "phone"), field.StringValue(contact)),
			field.Email("email", field.StringValue("ada@example.com")),
			field.Text("phone"),
		)
	}

	p := decode.AndUpdate(func(node field.Node[string], contact string) (field.Node[string], decode.Parser[string, string]) {
		hide := "phone"
		show := "email"
		if contact == "phone" {
			hide, show = show, hide
		}
		node, _, _ = decode.SetHidden(hide, true)(node)
		node, _, _ = decode.SetHidden(show, false)(node)
		return node, decode.Field(show, decode.String[string]())
	}, decode.Field("contact", decode.String[string]()))

	node, got, errs := decode.Run(p, form("email"))
	if len(errs) > 0 || got != "ada@example.com" {
		t.Fatalf("expected email, got %q (%v)", got, errs)
	}
	if node.Children[1].Hidden || !node.Children[2].Hidden {
		t.Fatalf("expected phone hidden and email shown")
	}

	node, _, errs = decode.Run(p, form("phone"))
	want := field.Errors[string]{field.NewIsBlank(field.Ident("phone"))}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if !node.Children[1].Hidden || node.Children[2].Hidden {
		t.Fatalf("expected email hidden and phone shown")
	}
}

func TestAndMapPipeline(t *testing.T) {
	build := func(name string) func(int) person {
		return func(age int) person { return person{Name: name, Age: age} }
	}
	p := decode.AndMap(
		decode.Field("age", decode.Int[string]()),
		decode.AndMap(decode.Field("name", decode.String[string]()), decode.Succeed[string](build)),
	)

	got, err := decode.Parse(p, personForm("Grace", value.Int(85)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(person{Name: "Grace", Age: 85}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestLazyRecursion(t *testing.T) {
	var count func() decode.Parser[string, int]
	count = func() decode.Parser[string, int] {
		return decode.Map(func(children []int) int {
			total := 1
			for _, c := range children {
				total += c
			}
			return total
		}, decode.List(decode.Lazy(count)))
	}

	tree := field.Group(nil,
		field.Group(nil, field.Text("a"), field.Text("b")),
		field.Text("c"),
	)
	got, err := decode.Parse(count(), tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != field.Count(tree) {
		t.Fatalf("expected %d, got %d", field.Count(tree), got)
	}
}
