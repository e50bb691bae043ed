// Package formkit ties the form tree packages together: it loads definitions
// (declarative files or OpenAPI request bodies) into trees, and drives them
// through a Session that applies events, re-evaluates visibility rules, keeps
// an undo history and decodes the result.
package formkit

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formkit/internal/openapi"
	"github.com/goliatone/go-formkit/internal/prompt"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formdef"
)

// Form is a built tree with the visibility rules of its nodes.
type Form[ID comparable] struct {
	ID    string
	Label string
	Tree  field.Node[ID]
	Rules map[ID]string
}

// FromDefinition builds a declarative definition.
func FromDefinition(def formdef.Form) (Form[string], error) {
	tree, err := def.Build()
	if err != nil {
		return Form[string]{}, err
	}
	return Form[string]{
		ID:    def.ID,
		Label: def.Label,
		Tree:  tree,
		Rules: def.Rules(),
	}, nil
}

// LoadFS loads every definition file under fsys and builds the form id.
func LoadFS(fsys fs.FS, id string) (Form[string], error) {
	store, err := formdef.LoadFS(fsys)
	if err != nil {
		return Form[string]{}, err
	}
	def, ok := store.Form(id)
	if !ok {
		return Form[string]{}, fmt.Errorf("formkit: form %q not found (have %v)", id, store.IDs())
	}
	return FromDefinition(def)
}

// LoadDefinition parses a single definition document and builds the form id.
func LoadDefinition(data []byte, source, id string) (Form[string], error) {
	defs, err := formdef.Parse(data, source)
	if err != nil {
		return Form[string]{}, err
	}
	for _, def := range defs {
		if def.ID == id {
			return FromDefinition(def)
		}
	}
	return Form[string]{}, fmt.Errorf("formkit: form %q not found in %s", id, source)
}

// LoadOpenAPI builds the request body of operationID from an OpenAPI 3
// document. Node identifiers are dotted property paths.
func LoadOpenAPI(ctx context.Context, data []byte, operationID string) (Form[string], error) {
	defs, err := openapi.Import(ctx, data, openapi.Options{Operations: []string{operationID}})
	if err != nil {
		return Form[string]{}, err
	}
	return FromDefinition(defs[0])
}

// OpenAPIOperations lists the operations of an OpenAPI document that can be
// loaded as forms.
func OpenAPIOperations(ctx context.Context, data []byte) ([]string, error) {
	defs, err := openapi.Import(ctx, data, openapi.Options{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(defs))
	for i, def := range defs {
		ids[i] = def.ID
	}
	return ids, nil
}

// Prompt types re-exported for Session.Prompt callers.
type (
	PromptDriver  = prompt.Driver
	InputConfig   = prompt.InputConfig
	ConfirmConfig = prompt.ConfirmConfig
	SelectConfig  = prompt.SelectConfig
)

// ErrAborted is returned by Session.Prompt when the user interrupts it.
var ErrAborted = prompt.ErrAborted

// NewSurveyDriver returns a PromptDriver on the process terminal.
func NewSurveyDriver() PromptDriver {
	return prompt.NewSurveyDriver()
}
