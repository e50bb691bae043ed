// Package testsupport holds fixture and golden-file helpers shared by the
// package tests. Set UPDATE_GOLDENS=1 to rewrite goldens from current output.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formdef"
)

// ReadFixture returns the raw bytes of a fixture file.
func ReadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// LoadForm parses a definition file and builds the form with the given id.
func LoadForm(t *testing.T, path, id string) field.Node[string] {
	t.Helper()

	tree, err := LoadFormFromPath(path, id)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return tree
}

// LoadFormFromPath is LoadForm for callers without a *testing.T.
func LoadFormFromPath(path, id string) (field.Node[string], error) {
	if path == "" {
		return field.Node[string]{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return field.Node[string]{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	forms, err := formdef.Parse(data, path)
	if err != nil {
		return field.Node[string]{}, fmt.Errorf("testsupport: parse definition: %w", err)
	}
	for _, form := range forms {
		if form.ID == id {
			return form.Build()
		}
	}
	return field.Node[string]{}, fmt.Errorf("testsupport: form %q not found in %s", id, path)
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v (run with UPDATE_GOLDENS=1 to create it)", err)
	}
	return data
}

// CompareJSONGolden marshals got and diffs it against the JSON golden at path
// after decoding both sides, so formatting differences do not matter.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)

	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var normalised any
	if err := json.Unmarshal(payload, &normalised); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return cmp.Diff(want, normalised)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
