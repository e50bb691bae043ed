// Package message turns form errors into display text through per-kind
// pongo2 templates. Defaults cover every error kind; callers override them
// individually or from a directory of "<kind>.tpl" files.
package message

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formkit/pkg/field"
)

// Defaults holds the built-in template of every error kind.
var Defaults = map[field.ErrorKind]string{
	field.ValueTooLarge:       "Must be no more than {{ max }}.",
	field.ValueTooSmall:       "Must be at least {{ min }}.",
	field.ValueNotInRange:     "Must be between {{ min }} and {{ max }}.",
	field.IsBlank:             "This field is required.",
	field.CustomError:         "{{ message }}",
	field.ListError:           "Item {{ index|add:1 }}: {{ inner }}",
	field.InputNotFound:       "Input {{ missing }} was not found.",
	field.RepeatableHasNoName: "This list needs a name.",
	field.IsGroupNotInput:     "A group cannot hold a value.",
	field.NoOptionsProvided:   "No options are available.",
	field.ParseError:          "{% if message %}{{ message|capfirst }}.{% else %}Could not read {{ value }}.{% endif %}",
}

// ErrUnknownKind is returned when no template exists for an error kind.
var ErrUnknownKind = errors.New("message: no template for error kind")

// Option configures a Catalog.
type Option func(*config)

type config struct {
	overrides map[field.ErrorKind]string
	fsys      fs.FS
	extension string
}

// WithTemplate overrides the template of one error kind.
func WithTemplate(kind field.ErrorKind, source string) Option {
	return func(cfg *config) {
		if cfg.overrides == nil {
			cfg.overrides = make(map[field.ErrorKind]string)
		}
		cfg.overrides[kind] = source
	}
}

// WithFS reads overrides from fsys, one "<kind><ext>" file per kind. Files
// that do not exist keep the default.
func WithFS(fsys fs.FS) Option {
	return func(cfg *config) {
		cfg.fsys = fsys
	}
}

// WithExtension sets the override file extension. Defaults to ".tpl".
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			cfg.extension = ext
		}
	}
}

// Catalog renders errors. It is safe for concurrent use; templates compile
// on first use.
type Catalog struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	sources   map[field.ErrorKind]string
	templates map[field.ErrorKind]*pongo2.Template
}

// New builds a catalog from the defaults and the given overrides.
func New(options ...Option) (*Catalog, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	sources := make(map[field.ErrorKind]string, len(Defaults))
	for kind, source := range Defaults {
		sources[kind] = source
	}
	if cfg.fsys != nil {
		for kind := range Defaults {
			data, err := fs.ReadFile(cfg.fsys, string(kind)+cfg.extension)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("message: read template %q: %w", kind, err)
			}
			sources[kind] = string(data)
		}
	}
	for kind, source := range cfg.overrides {
		sources[kind] = source
	}

	var loader pongo2.TemplateLoader = pongo2.DefaultLoader
	if cfg.fsys != nil {
		loader = pongo2.NewFSLoader(cfg.fsys)
	}

	return &Catalog{
		set:       pongo2.NewSet("formkit-messages", loader),
		sources:   sources,
		templates: make(map[field.ErrorKind]*pongo2.Template),
	}, nil
}

// Compile parses every template up front and reports the first failure.
func (c *Catalog) Compile() error {
	for kind := range c.sources {
		if _, err := c.template(kind); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) template(kind field.ErrorKind) (*pongo2.Template, error) {
	c.mu.RLock()
	if tmpl, ok := c.templates[kind]; ok {
		c.mu.RUnlock()
		return tmpl, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if tmpl, ok := c.templates[kind]; ok {
		return tmpl, nil
	}
	source, ok := c.sources[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	// Messages are plain text.
	tmpl, err := c.set.FromString("{% autoescape off %}" + source + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("message: compile template %q: %w", kind, err)
	}
	c.templates[kind] = tmpl
	return tmpl, nil
}

// Render produces the display text of err.
func Render[ID comparable](c *Catalog, err field.Error[ID]) (string, error) {
	if c == nil {
		return "", errors.New("message: catalog is nil")
	}
	tmpl, tplErr := c.template(err.Kind)
	if tplErr != nil {
		return "", tplErr
	}
	ctx, ctxErr := contextOf(c, err)
	if ctxErr != nil {
		return "", ctxErr
	}
	out, execErr := tmpl.Execute(ctx)
	if execErr != nil {
		return "", fmt.Errorf("message: render %q: %w", err.Kind, execErr)
	}
	return strings.TrimSpace(out), nil
}

// Messages renders every error of errs, in order.
func Messages[ID comparable](c *Catalog, errs field.Errors[ID]) ([]string, error) {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		text, renderErr := Render(c, err)
		if renderErr != nil {
			return nil, renderErr
		}
		out = append(out, text)
	}
	return out, nil
}

func contextOf[ID comparable](c *Catalog, err field.Error[ID]) (pongo2.Context, error) {
	ctx := pongo2.Context{
		"kind":    string(err.Kind),
		"value":   err.Value.Raw(),
		"min":     err.Min.Raw(),
		"max":     err.Max.Raw(),
		"message": err.Message,
		"index":   err.Index,
	}
	if err.Identifier != nil {
		ctx["identifier"] = fmt.Sprint(*err.Identifier)
	}
	if err.Missing != nil {
		ctx["missing"] = fmt.Sprint(*err.Missing)
	}
	if err.Inner != nil {
		inner, innerErr := Render(c, *err.Inner)
		if innerErr != nil {
			return nil, innerErr
		}
		ctx["inner"] = inner
	}
	return ctx, nil
}
