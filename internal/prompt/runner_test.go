package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/internal/prompt"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/jsonform"
	"github.com/goliatone/go-formkit/pkg/message"
	"github.com/goliatone/go-formkit/pkg/update"
	"github.com/goliatone/go-formkit/pkg/value"
)

// stubDriver replays scripted answers. Inputs rejected by the prompt's
// validator are recorded and the next scripted input is tried, the way
// survey re-asks.
type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	rejected  []string
	infos     []string
	messages  []string
	suggested map[string][]string
}

func (s *stubDriver) next(cfg prompt.InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if cfg.Suggest != nil {
		if s.suggested == nil {
			s.suggested = map[string][]string{}
		}
		s.suggested[cfg.Message] = cfg.Suggest("ap")
	}
	for len(s.inputs) > 0 {
		val := s.inputs[0]
		s.inputs = s.inputs[1:]
		if cfg.Validator != nil {
			if err := cfg.Validator(val); err != nil {
				s.rejected = append(s.rejected, err.Error())
				continue
			}
		}
		return val, nil
	}
	return "", errors.New("no input scripted")
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.next(cfg)
}

func (s *stubDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.next(cfg)
}

func (s *stubDriver) TextArea(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return s.next(cfg)
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func petForm() field.Node[string] {
	return field.Group[string](nil,
		field.Text("name", field.Name("name"), field.Label("Name"), field.Required(true)),
		field.Integer("age", field.Name("age"), field.Min(value.Int(0)), field.Max(value.Int(120))),
		field.Select("plan", field.Name("plan"), field.Label("Plan"), field.Options(
			field.Option{Label: "Free", Value: value.Int(0)},
			field.Option{Label: "Pro", Value: value.Int(10)},
		)),
		field.Checkbox("agree", field.Name("agree"), field.BoolValue(false)),
		field.Repeatable([]field.Attribute{field.Name("pets"), field.Label("Pets"), field.RepeatableMax(2)},
			field.Leaf[string](field.InputText, field.Name("pet"))),
		field.Text("secret", field.Hidden(true)),
	)
}

func TestRunFillsForm(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada", "36", "cat"},
		selectIdx: []int{2},
		confirm:   []bool{true, true, false},
	}

	tree, events, err := prompt.Runner[string]{Driver: driver}.Run(context.Background(), petForm())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := jsonform.Project(tree)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	want := map[string]any{
		"name":  "Ada",
		"age":   36,
		"plan":  10,
		"agree": true,
		"pets":  []any{"cat"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}

	wantMessages := []string{"Name *", "age", "Plan", "agree", "Add Pets item 1?", "pet", "Add Pets item 2?"}
	if diff := cmp.Diff(wantMessages, driver.messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	replayed := update.ApplyAll(petForm(), events...)
	again, _ := jsonform.Project(replayed)
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("replayed events mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRejectsInvalidAnswers(t *testing.T) {
	catalog, err := message.New()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	driver := &stubDriver{
		inputs:    []string{"", "Ada", "old", "200", "36"},
		selectIdx: []int{0},
		confirm:   []bool{false, false},
	}

	tree, _, err := prompt.Runner[string]{Driver: driver, Messages: catalog}.Run(context.Background(), petForm())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{
		"This field is required.",
		"Expected integer.",
		"Must be no more than 120.",
	}
	if diff := cmp.Diff(want, driver.rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}

	plan, _, _ := field.FindByIdentifier("plan", tree)
	if !plan.Value.IsBlank() || !plan.Touched {
		t.Fatalf("expected (none) to leave plan blank and touched, got %+v", plan)
	}
}

func TestRunRefreshRevealsInputs(t *testing.T) {
	tree := field.Group[string](nil,
		field.Checkbox("more", field.Name("more"), field.BoolValue(false)),
		field.Text("details", field.Name("details"), field.Hidden(true)),
	)
	reveal := func(n field.Node[string]) field.Node[string] {
		more, _, _ := field.FindByIdentifier("more", n)
		checked, _ := more.Value.ToBool()
		out, _ := field.UpdateByIdentifier(n, "details", func(d field.Node[string]) field.Node[string] {
			d.Hidden = !checked
			return d
		})
		return out
	}

	driver := &stubDriver{inputs: []string{"lots"}, confirm: []bool{true}}
	out, _, err := prompt.Runner[string]{Driver: driver, Refresh: reveal}.Run(context.Background(), tree)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	details, _, _ := field.FindByIdentifier("details", out)
	if !details.Value.Equal(value.String("lots")) {
		t.Fatalf("expected revealed input to be prompted, got %#v", details.Value)
	}
}

func TestRunStrictAutocompleteSuggests(t *testing.T) {
	tree := field.Group[string](nil,
		field.StrictAutocomplete("fruit", field.Name("fruit"), field.Label("Fruit"),
			field.StringOptions("apple", "banana", "apricot", "grape")),
	)
	driver := &stubDriver{inputs: []string{"kiwi", "apricot"}}

	out, _, err := prompt.Runner[string]{Driver: driver}.Run(context.Background(), tree)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"apple", "grape", "apricot"}, driver.suggested["Fruit"]); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if len(driver.rejected) != 1 {
		t.Fatalf("expected kiwi to be rejected, got %v", driver.rejected)
	}
	fruit, _, _ := field.FindByIdentifier("fruit", out)
	if !fruit.Value.Equal(value.String("apricot")) {
		t.Fatalf("unexpected fruit value %#v", fruit.Value)
	}
}

func TestRunPropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{}
	_, _, err := prompt.Runner[string]{Driver: driver}.Run(context.Background(), petForm())
	if err == nil {
		t.Fatalf("expected error when the script runs out")
	}
}
