package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formdef"
)

var formatInputs = map[string]field.InputType{
	"date":      field.InputDate,
	"date-time": field.InputLocalDatetime,
	"month":     field.InputMonth,
	"email":     field.InputEmail,
	"password":  field.InputPassword,
}

type converter struct {
	visiting map[*openapi3.Schema]bool
}

// objectFields converts the properties of an object schema, allOf parts
// included. Properties listed in the "order" extension come first, the rest
// follow alphabetically.
func (c converter) objectFields(prefix string, ref *openapi3.SchemaRef) ([]formdef.Field, bool) {
	if ref == nil || ref.Value == nil {
		return nil, false
	}
	props := map[string]*openapi3.SchemaRef{}
	required := map[string]bool{}
	if !collectObject(ref.Value, props, required, map[*openapi3.Schema]bool{}) {
		return nil, false
	}

	var fields []formdef.Field
	for _, name := range propertyOrder(ref.Value, props) {
		f, ok := c.field(prefix, name, props[name], required[name])
		if ok {
			fields = append(fields, f)
		}
	}
	return fields, true
}

func collectObject(s *openapi3.Schema, props map[string]*openapi3.SchemaRef, required map[string]bool, seen map[*openapi3.Schema]bool) bool {
	if s == nil || seen[s] {
		return false
	}
	seen[s] = true

	isObject := schemaType(s) == openapi3.TypeObject || len(s.Properties) > 0
	for name, prop := range s.Properties {
		props[name] = prop
	}
	for _, name := range s.Required {
		required[name] = true
	}
	for _, part := range s.AllOf {
		if part != nil && collectObject(part.Value, props, required, seen) {
			isObject = true
		}
	}
	return isObject
}

func propertyOrder(s *openapi3.Schema, props map[string]*openapi3.SchemaRef) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	rank := map[string]int{}
	if order, ok := extension(s)["order"].([]any); ok {
		for i, raw := range order {
			if name, ok := raw.(string); ok {
				if _, exists := rank[name]; !exists {
					rank[name] = i + 1
				}
			}
		}
	}
	if len(rank) == 0 {
		return names
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := rank[names[i]], rank[names[j]]
		switch {
		case ri > 0 && rj > 0:
			return ri < rj
		default:
			return ri > 0 && rj == 0
		}
	})
	return names
}

func (c converter) field(prefix, name string, ref *openapi3.SchemaRef, required bool) (formdef.Field, bool) {
	if ref == nil || ref.Value == nil {
		return formdef.Field{}, false
	}
	s := ref.Value
	if s.ReadOnly || c.visiting[s] {
		return formdef.Field{}, false
	}
	c.visiting[s] = true
	defer delete(c.visiting, s)

	id := name
	if prefix != "" {
		id = prefix + "." + name
	}
	label := s.Title
	if label == "" {
		label = Labelize(name)
	}
	f := formdef.Field{
		ID:       id,
		Name:     name,
		Label:    label,
		Hint:     s.Description,
		Required: required,
	}

	switch typ := schemaType(s); {
	case typ == openapi3.TypeObject || (typ == "" && len(s.Properties) > 0):
		children, ok := c.objectFields(id, ref)
		if !ok {
			return formdef.Field{}, false
		}
		f.Type = string(field.InputGroup)
		f.Fields = children

	case typ == openapi3.TypeArray:
		template, ok := c.field(id, "item", s.Items, false)
		if !ok {
			return formdef.Field{}, false
		}
		template.Name = ""
		f.Type = string(field.InputRepeatable)
		f.Template = &template
		f.RepeatableMin = int(s.MinItems)
		if s.MaxItems != nil {
			f.RepeatableMax = int(*s.MaxItems)
		}

	default:
		f.Type = string(leafInput(typ, s))
		if len(s.Enum) > 0 {
			f.Options = make([]formdef.Option, 0, len(s.Enum))
			for _, raw := range s.Enum {
				if raw == nil {
					continue
				}
				f.Options = append(f.Options, formdef.Option{Label: fmt.Sprint(raw), Value: raw})
			}
		}
		if typ == openapi3.TypeInteger || typ == openapi3.TypeNumber {
			if s.Min != nil {
				f.Min = *s.Min
			}
			if s.Max != nil {
				f.Max = *s.Max
			}
		}
		if isScalar(s.Default) {
			f.Value = s.Default
		}
	}

	applyExtension(&f, extension(s))
	return f, true
}

func leafInput(typ string, s *openapi3.Schema) field.InputType {
	if len(s.Enum) > 0 {
		return field.InputSelect
	}
	switch typ {
	case openapi3.TypeInteger:
		return field.InputInteger
	case openapi3.TypeNumber:
		return field.InputFloat
	case openapi3.TypeBoolean:
		return field.InputCheckbox
	}
	if input, ok := formatInputs[s.Format]; ok {
		return input
	}
	return field.InputText
}

func applyExtension(f *formdef.Field, ext map[string]any) {
	if input, ok := ext["input"].(string); ok && input != "" {
		f.Type = input
	}
	if label, ok := ext["label"].(string); ok && label != "" {
		f.Label = label
	}
	if placeholder, ok := ext["placeholder"].(string); ok {
		f.Placeholder = placeholder
	}
	if hidden, ok := ext["hidden"].(bool); ok {
		f.Hidden = hidden
	}
	if rule, ok := ext["visibleWhen"].(string); ok {
		f.VisibleWhen = rule
	}
}

func extension(s *openapi3.Schema) map[string]any {
	if s == nil {
		return nil
	}
	ext, _ := s.Extensions[extensionKey].(map[string]any)
	return ext
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	for _, typ := range s.Type.Slice() {
		if typ != openapi3.TypeNull {
			return typ
		}
	}
	return ""
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, float32, int, int64:
		return true
	default:
		return false
	}
}

var labelSeparators = regexp.MustCompile(`[_\-\s]+`)

// Labelize turns a property name such as "first_name" or "zipCode" into a
// display label ("First name", "Zip code").
func Labelize(name string) string {
	var words []string
	for _, part := range labelSeparators.Split(name, -1) {
		words = append(words, splitCamel(part)...)
	}
	if len(words) == 0 {
		return ""
	}
	label := strings.ToLower(strings.Join(words, " "))
	return strings.ToUpper(label[:1]) + label[1:]
}

func splitCamel(word string) []string {
	var (
		out   []string
		start int
	)
	for i := 1; i < len(word); i++ {
		prev, cur := word[i-1], word[i]
		lowerToUpper := isLower(prev) && isUpper(cur)
		letterDigit := isLetter(prev) != isLetter(cur) && (isDigit(prev) || isDigit(cur))
		if lowerToUpper || letterDigit {
			out = append(out, word[start:i])
			start = i
		}
	}
	if start < len(word) {
		out = append(out, word[start:])
	}
	return out
}

func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }
