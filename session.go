package formkit

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-formkit/internal/prompt"
	"github.com/goliatone/go-formkit/pkg/decode"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/jsonform"
	"github.com/goliatone/go-formkit/pkg/message"
	"github.com/goliatone/go-formkit/pkg/update"
	"github.com/goliatone/go-formkit/pkg/validate"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

const defaultHistoryLimit = 100

// Option configures a Session.
type Option func(*config)

type config struct {
	evaluator    visibility.Evaluator
	extras       map[string]any
	catalog      *message.Catalog
	skipHidden   bool
	historyLimit int
}

// WithEvaluator replaces the default expr evaluator for visibility rules.
func WithEvaluator(ev visibility.Evaluator) Option {
	return func(cfg *config) {
		if ev != nil {
			cfg.evaluator = ev
		}
	}
}

// WithExtras exposes caller data to visibility rules as "extras.<key>".
func WithExtras(extras map[string]any) Option {
	return func(cfg *config) {
		cfg.extras = extras
	}
}

// WithCatalog sets the catalog Messages renders with.
func WithCatalog(catalog *message.Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = catalog
	}
}

// WithSkipHidden leaves hidden inputs out of validation and of Values.
func WithSkipHidden() Option {
	return func(cfg *config) {
		cfg.skipHidden = true
	}
}

// WithHistoryLimit bounds the undo history. Zero or less disables undo.
func WithHistoryLimit(n int) Option {
	return func(cfg *config) {
		cfg.historyLimit = n
	}
}

// Session holds the current tree of one form. It is safe for concurrent use.
type Session[ID comparable] struct {
	mu      sync.RWMutex
	form    Form[ID]
	tree    field.Node[ID]
	history []field.Node[ID]
	cfg     config
}

// NewSession starts a session on form. Visibility rules are checked when the
// evaluator supports it and applied once before the session is returned.
func NewSession[ID comparable](form Form[ID], options ...Option) (*Session[ID], error) {
	cfg := config{historyLimit: defaultHistoryLimit}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		cfg.evaluator = expr.New()
	}
	if cfg.catalog == nil {
		catalog, err := message.New()
		if err != nil {
			return nil, err
		}
		cfg.catalog = catalog
	}

	if checker, ok := cfg.evaluator.(visibility.Checker); ok {
		if failures := visibility.Check(form.Rules, checker); failures != nil {
			var errs field.Errors[ID]
			for id, err := range failures {
				errs = errs.Append(field.NewCustomError(field.Ident(id), err.Error()))
			}
			return nil, errs
		}
	}

	s := &Session[ID]{form: form, cfg: cfg}
	tree, err := s.refresh(form.Tree)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	return s, nil
}

func (s *Session[ID]) refresh(tree field.Node[ID]) (field.Node[ID], error) {
	if len(s.form.Rules) == 0 {
		return tree, nil
	}
	return visibility.Apply(tree, s.form.Rules, s.cfg.evaluator, visibility.WithExtras(s.cfg.extras))
}

// Form returns the form the session was started with.
func (s *Session[ID]) Form() Form[ID] {
	return s.form
}

// Tree returns the current tree.
func (s *Session[ID]) Tree() field.Node[ID] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Apply folds events over the current tree and re-evaluates visibility. The
// previous tree is pushed on the undo history. A visibility failure is
// returned alongside the new tree, which keeps the rules that did apply.
func (s *Session[ID]) Apply(events ...update.Event) (field.Node[ID], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.refresh(update.ApplyAll(s.tree, events...))
	s.commit(next)
	return next, err
}

// ApplyJSON decodes a serialised event and applies it.
func (s *Session[ID]) ApplyJSON(data []byte) (field.Node[ID], error) {
	ev, err := update.Decode(data)
	if err != nil {
		return s.Tree(), err
	}
	return s.Apply(ev)
}

func (s *Session[ID]) commit(next field.Node[ID]) {
	if s.cfg.historyLimit > 0 {
		s.history = append(s.history, s.tree)
		if over := len(s.history) - s.cfg.historyLimit; over > 0 {
			s.history = append([]field.Node[ID](nil), s.history[over:]...)
		}
	}
	s.tree = next
}

// Undo restores the tree before the last change. It reports false when there
// is nothing to undo.
func (s *Session[ID]) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return false
	}
	last := len(s.history) - 1
	s.tree = s.history[last]
	s.history = s.history[:last]
	return true
}

// Reset returns to the form's initial tree. It can be undone.
func (s *Session[ID]) Reset() error {
	tree, err := s.refresh(s.form.Tree)
	s.mu.Lock()
	s.commit(tree)
	s.mu.Unlock()
	return err
}

// Validate stores the errors of every node on the tree and reports whether
// it is valid.
func (s *Session[ID]) Validate() (field.Node[ID], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	validated, ok := validate.Validate(s.tree, s.validateOptions()...)
	s.tree = validated
	return validated, ok
}

func (s *Session[ID]) validateOptions() []validate.Option {
	if s.cfg.skipHidden {
		return []validate.Option{validate.SkipHidden()}
	}
	return nil
}

// Messages renders the errors currently stored on the tree.
func (s *Session[ID]) Messages() ([]string, error) {
	return message.Messages(s.cfg.catalog, validate.Collect(s.Tree()))
}

// Values returns the JSON projection of the current tree.
func (s *Session[ID]) Values() (map[string]any, error) {
	var opts []jsonform.Option
	if s.cfg.skipHidden {
		opts = append(opts, jsonform.SkipHidden())
	}
	return jsonform.Project(s.Tree(), opts...)
}

// Import writes a JSON object into the tree. Keys that fail are reported in
// the returned error; the others are applied.
func (s *Session[ID]) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported, err := jsonform.ImportJSON(s.tree, data)
	var errs field.Errors[ID]
	if err != nil && !errors.As(err, &errs) {
		return err
	}
	next, refreshErr := s.refresh(imported)
	s.commit(next)
	if err != nil {
		return err
	}
	return refreshErr
}

// AttachErrors stores server-side messages on the inputs they address and
// returns the messages that address the form as a whole.
func (s *Session[ID]) AttachErrors(payload map[string][]string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, formLevel := jsonform.AttachErrors(s.tree, payload)
	s.commit(next)
	return formLevel
}

// Prompt asks for every visible input through driver. Each answer is applied
// as an event and can be undone as a whole. The session stays locked for the
// whole run, so other calls wait until Prompt returns; driver must not call
// back into the session.
func (s *Session[ID]) Prompt(ctx context.Context, driver PromptDriver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner := prompt.Runner[ID]{
		Driver:   driver,
		Messages: s.cfg.catalog,
		Refresh: func(tree field.Node[ID]) field.Node[ID] {
			refreshed, _ := s.refresh(tree)
			return refreshed
		},
	}

	out, _, err := runner.Run(ctx, s.tree)
	s.commit(out)
	return err
}

// Decode validates the current tree, stores the result, and runs p on it.
func Decode[ID comparable, A any](s *Session[ID], p decode.Parser[ID, A]) (A, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	validated, out, err := decode.ValidateAndParse(p, s.tree, s.validateOptions()...)
	s.tree = validated
	return out, err
}
