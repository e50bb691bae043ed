package formdef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds the forms loaded from one filesystem, keyed by form id.
type Store struct {
	forms map[string]Form
}

// LoadFS walks fsys and loads every JSON/YAML definition file. Form ids must
// be unique across files. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if existing, exists := store.forms[form.ID]; exists {
				return fmt.Errorf("formdef: duplicate form %q (files %s and %s)", form.ID, existing.Source, path)
			}
			store.forms[form.ID] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes one definition document. source names it in errors.
func Parse(data []byte, source string) ([]Form, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("formdef: file %s is empty", source)
	}
	canonical, err := canonicalJSON(data, source)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(canonical, source); err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(canonical))
	decoder.UseNumber()
	var doc documentFile
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("formdef: decode %s: %w", source, err)
	}

	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forms := make([]Form, 0, len(ids))
	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("formdef: file %s defines an empty form id", source)
		}
		form := doc.Forms[rawID]
		form.ID = id
		form.Source = source
		if err := form.check(); err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Form returns the form with the given id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the loaded form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// canonicalJSON returns data as JSON, converting YAML when needed.
func canonicalJSON(data []byte, source string) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formdef: parse %s: invalid JSON or YAML: %w", source, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("formdef: convert %s to JSON: %w", source, err)
	}
	return out, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
