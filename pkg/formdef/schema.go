package formdef

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/formdef.schema.json
var schemaFS embed.FS

const schemaID = "formdef.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaError is one violation of the definition schema.
type SchemaError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e SchemaError) String() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// SchemaErrors is returned when a definition file violates the schema.
type SchemaErrors struct {
	Source string
	Errors []SchemaError
}

func (e *SchemaErrors) Error() string {
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.String()
	}
	return fmt.Sprintf("formdef: %s does not match the definition schema: %s", e.Source, strings.Join(parts, "; "))
}

func definitionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := schemaFS.ReadFile("schema/" + schemaID)
		if err != nil {
			schemaErr = fmt.Errorf("formdef: read embedded schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			schemaErr = fmt.Errorf("formdef: parse embedded schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaID, doc); err != nil {
			schemaErr = fmt.Errorf("formdef: add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaID)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("formdef: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// checkSchema validates canonical JSON against the definition schema.
func checkSchema(canonical []byte, source string) error {
	schema, err := definitionSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(canonical))
	if err != nil {
		return fmt.Errorf("formdef: parse %s: %w", source, err)
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("formdef: validate %s: %w", source, err)
	}
	return &SchemaErrors{Source: source, Errors: collectErrors(validationErr)}
}

func collectErrors(ve *jsonschema.ValidationError) []SchemaError {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return []SchemaError{{Path: path, Message: ve.Error()}}
	}
	var out []SchemaError
	for _, cause := range ve.Causes {
		out = append(out, collectErrors(cause)...)
	}
	return out
}
