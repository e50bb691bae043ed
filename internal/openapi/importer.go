// Package openapi turns the request bodies of OpenAPI operations into form
// definitions. Every operation whose body is an object schema becomes one
// formdef.Form keyed by its operationId (or "method:path" when it has none).
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/formdef"
)

// extensionKey holds per-schema overrides:
//
//	x-formkit:
//	  input: textarea
//	  placeholder: Tell us more
//	  hidden: true
//	  visibleWhen: contact == "phone"
const extensionKey = "x-formkit"

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Options configures Import.
type Options struct {
	// Operations limits the import to these operation ids. Empty imports all.
	Operations []string
	// Validate runs the kin-openapi document validator before importing.
	Validate bool
}

// Import parses an OpenAPI 3 document and returns one form per operation with
// an object request body, sorted by id.
func Import(ctx context.Context, data []byte, opts Options) ([]formdef.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	wanted := make(map[string]bool, len(opts.Operations))
	for _, id := range opts.Operations {
		wanted[id] = true
	}

	var forms []formdef.Form
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				form, ok := operationForm(method, path, op)
				if !ok || (len(wanted) > 0 && !wanted[form.ID]) {
					continue
				}
				forms = append(forms, form)
			}
		}
	}

	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	for i := 1; i < len(forms); i++ {
		if forms[i].ID == forms[i-1].ID {
			return nil, fmt.Errorf("openapi: duplicate operation id %q", forms[i].ID)
		}
	}
	for id := range wanted {
		if !containsForm(forms, id) {
			return nil, fmt.Errorf("openapi: operation %q not found or has no object request body", id)
		}
	}
	return forms, nil
}

// ImportFS reads name from fsys and imports it.
func ImportFS(ctx context.Context, fsys fs.FS, name string, opts Options) ([]formdef.Form, error) {
	if fsys == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi: document path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Import(ctx, data, opts)
}

func containsForm(forms []formdef.Form, id string) bool {
	for _, form := range forms {
		if form.ID == id {
			return true
		}
	}
	return false
}

func operationForm(method, path string, op *openapi3.Operation) (formdef.Form, bool) {
	if op == nil {
		return formdef.Form{}, false
	}
	body := requestSchema(op.RequestBody)
	if body == nil {
		return formdef.Form{}, false
	}

	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	c := converter{visiting: map[*openapi3.Schema]bool{}}
	fields, ok := c.objectFields("", body)
	if !ok {
		return formdef.Form{}, false
	}
	return formdef.Form{
		ID:     id,
		Source: strings.ToUpper(method) + " " + path,
		Label:  op.Summary,
		Hint:   op.Description,
		Fields: fields,
	}, true
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}
