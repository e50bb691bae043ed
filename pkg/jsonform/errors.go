package jsonform

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
)

// AttachErrors places messages reported by a server against the nodes they
// address and returns the messages that belong to the form as a whole.
// Keys may be dotted name chains ("items.0.title"), JSON pointers
// ("/items/0/title") or bracketed paths ("items[0].title"); wrapper segments
// such as "body" or "data" are ignored. A key that matches no name chain is
// attributed to the longest matching prefix, or to the form when nothing
// matches. Attached nodes are marked touched so renderers show the message.
func AttachErrors[ID comparable](tree field.Node[ID], payload map[string][]string) (field.Node[ID], []string) {
	if len(payload) == 0 {
		return tree, nil
	}
	paths := NamePaths(tree)

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var formLevel []string
	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		name, ok := matchErrorPath(key, paths)
		if !ok {
			formLevel = append(formLevel, messages...)
			continue
		}
		tree = field.UpdateAt(tree, paths[name], func(n field.Node[ID]) field.Node[ID] {
			errs := n.Errors
			for _, message := range messages {
				errs = errs.Append(field.NewCustomError(n.Identifier, message))
			}
			n.Errors = errs
			n.Touched = true
			return n
		})
	}
	return tree, normalizeMessages(formLevel)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func matchErrorPath(raw string, paths map[string]field.Path) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitErrorPath(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range [][]string{segments, dropWrappers(segments), dropIndices(dropWrappers(segments))} {
		match := longestPrefix(variant, paths)
		if match == "" {
			continue
		}
		if best == "" || strings.Count(match, ".") > strings.Count(best, ".") {
			best = match
		}
	}
	return best, best != ""
}

func splitErrorPath(raw string) []string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrappers(segments []string) []string {
	out := segments
	for len(out) > 1 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "attributes":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func dropIndices(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestPrefix(segments []string, paths map[string]field.Path) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := paths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
