package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

type node interface {
	eval(ctx visibility.Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ identifier string }

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	v, _ := lookup(ctx, n.identifier)
	return truthy(v), nil
}

type compareNode struct {
	identifier string
	op         tokenKind
	lit        token
}

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	got, found := lookup(ctx, n.identifier)
	if !found {
		got = nil
	}

	switch n.lit.kind {
	case tokNull:
		return n.equality(got == nil), nil

	case tokBool:
		b, _ := asBool(got)
		return n.equality(b == (n.lit.raw == "true")), nil

	case tokNumber:
		want, _ := strconv.ParseFloat(n.lit.raw, 64)
		f, ok := asNumber(got)
		if !ok {
			return n.op == tokNeq, nil
		}
		return n.order(compareFloat(f, want)), nil

	case tokString:
		if got == nil {
			return n.op == tokNeq, nil
		}
		return n.order(strings.Compare(asString(got), n.lit.raw)), nil

	default:
		return false, fmt.Errorf("visibility/expr: unsupported literal %q", n.lit.raw)
	}
}

func (n compareNode) equality(equal bool) bool {
	if n.op == tokNeq {
		return !equal
	}
	return equal
}

func (n compareNode) order(cmp int) bool {
	switch n.op {
	case tokEq:
		return cmp == 0
	case tokNeq:
		return cmp != 0
	case tokLt:
		return cmp < 0
	case tokLte:
		return cmp <= 0
	case tokGt:
		return cmp > 0
	case tokGte:
		return cmp >= 0
	default:
		return false
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if rest, ok := cutPrefixFold(key, "extras."); ok {
		return lookupPath(ctx.Extras, rest)
	}
	return lookupPath(ctx.Values, key)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

// lookupPath resolves a dotted path through nested objects and arrays. An
// exact key match wins over traversal.
func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	}
	if f, ok := asNumber(v); ok {
		return f != 0
	}
	return true
}

func asBool(v any) (bool, bool) {
	switch typed := v.(type) {
	case nil:
		return false, false
	case bool:
		return typed, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(typed)); err == nil {
			return parsed, true
		}
	}
	return truthy(v), true
}

func asNumber(v any) (float64, bool) {
	switch typed := v.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}
