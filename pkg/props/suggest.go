package props

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/goliatone/go-formkit/pkg/field"
)

// Suggest ranks the options of node against query, closest first, for
// autocomplete inputs. An empty query returns the options in order. limit
// caps the result when positive.
func Suggest[ID comparable](node field.Node[ID], query string, limit int) []field.Option {
	query = strings.TrimSpace(query)
	if len(node.Options) == 0 {
		return nil
	}

	var out []field.Option
	if query == "" {
		out = append(out, node.Options...)
	} else {
		labels := make([]string, len(node.Options))
		for i, option := range node.Options {
			labels[i] = option.Label
		}
		ranks := fuzzy.RankFindFold(query, labels)
		sort.Stable(ranks)
		out = make([]field.Option, 0, len(ranks))
		for _, rank := range ranks {
			out = append(out, node.Options[rank.OriginalIndex])
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
