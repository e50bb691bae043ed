package expr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Values: map[string]any{
			"contact": "phone",
			"age":     json.Number("21"),
			"score":   3.5,
			"agree":   true,
			"notes":   "",
			"start":   "2024-03-01",
			"address": map[string]any{"city": "Lisbon", "zip": nil},
			"pets":    []any{"cat", map[string]any{"name": "Rex"}},
			"enabled": "true",
		},
		Extras: map[string]any{"role": "admin", "beta": false},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{``, true},
		{`contact == "phone"`, true},
		{`contact == 'phone'`, true},
		{`contact == phone`, true},
		{`contact != "email"`, true},
		{`age >= 18`, true},
		{`age < 21`, false},
		{`age == 21`, true},
		{`score > 3 && score <= 3.5`, true},
		{`agree`, true},
		{`!agree`, false},
		{`agree == true`, true},
		{`enabled == true`, true},
		{`notes`, false},
		{`missing`, false},
		{`missing == null`, true},
		{`missing != "x"`, true},
		{`missing > 3`, false},
		{`start >= "2024-01-01"`, true},
		{`start < "2024-02-01"`, false},
		{`address.city == "Lisbon"`, true},
		{`address.zip == null`, true},
		{`address.zip != null`, false},
		{`pets.0 == "cat"`, true},
		{`pets.1.name == "Rex"`, true},
		{`pets.5`, false},
		{`extras.role == "admin"`, true},
		{`Extras.beta`, false},
		{`!extras.beta && (contact == "email" || age > 18)`, true},
		{`contact == "email" || agree && notes`, false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("rule", tc.rule, ctx)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.rule, tc.want, got)
		}
	}
}

func TestEvaluatorRejectsMalformedRules(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`contact = "phone"`:     "use",
		`contact == "phone`:     "unterminated",
		`(agree`:                "closing",
		`agree &&`:              "end of expression",
		`age >= true`:           "does not apply",
		`age == 1e`:             "invalid number",
		`agree contact`:         "unexpected token",
		`== "x"`:                "expected identifier",
		`contact ==`:            "missing literal",
		`contact == (agree)`:    "expected literal",
		`"phone" == contact`:    "expected identifier",
		`age < null`:            "does not apply",
		`extras.beta || (a && `: "end of expression",
	}

	eval := New()
	for rule, fragment := range cases {
		err := eval.Check(rule)
		if err == nil || !strings.Contains(err.Error(), fragment) {
			t.Fatalf("%s: expected error containing %q, got %v", rule, fragment, err)
		}
	}
}

func TestEvalLabelsErrorsWithID(t *testing.T) {
	t.Parallel()

	_, err := New().Eval("phone", "(contact", visibility.Context{})
	if err == nil || !strings.HasPrefix(err.Error(), "phone: ") {
		t.Fatalf("expected error labelled with id, got %v", err)
	}
}

func TestEvaluatorCachesCompiledRules(t *testing.T) {
	t.Parallel()

	eval := New()
	if err := eval.Check(" agree "); err != nil {
		t.Fatalf("check: %v", err)
	}
	first := eval.compiled["agree"]
	if first == nil {
		t.Fatalf("expected rule to be cached under its trimmed text")
	}
	if _, err := eval.Eval("x", "agree", visibility.Context{}); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if eval.compiled["agree"] != first || len(eval.compiled) != 1 {
		t.Fatalf("expected cached rule to be reused")
	}
}

func TestZeroEvaluatorIsUsable(t *testing.T) {
	t.Parallel()

	var eval Evaluator
	ok, err := eval.Eval("x", "flag", visibility.Context{Values: map[string]any{"flag": 1}})
	if err != nil || !ok {
		t.Fatalf("expected true, got %v (%v)", ok, err)
	}
}
