package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"osta/internal/lexer"
	"osta/internal/token"
)

// kindFilter keeps the listed token kinds. Errors always pass.
type kindFilter map[token.Kind]bool

// parseKindFilter resolves --only names case-insensitively. An empty list
// yields a nil filter that keeps everything.
func parseKindFilter(names []string) (kindFilter, error) {
	var filter kindFilter
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		kind, ok := lookupKind(name)
		if !ok {
			if hints := suggestKinds(name); len(hints) > 0 {
				return nil, fmt.Errorf("unknown token kind %q (did you mean %s?)", name, strings.Join(hints, ", "))
			}
			return nil, fmt.Errorf("unknown token kind %q", name)
		}
		if filter == nil {
			filter = make(kindFilter)
		}
		filter[kind] = true
	}
	return filter, nil
}

func (f kindFilter) apply(results []lexer.Result) []lexer.Result {
	if f == nil {
		return results
	}
	out := make([]lexer.Result, 0, len(results))
	for _, r := range results {
		if !r.OK() || f[r.Token.Kind] {
			out = append(out, r)
		}
	}
	return out
}

func lookupKind(name string) (token.Kind, bool) {
	if k, ok := token.ParseKind(name); ok && k != token.Invalid {
		return k, true
	}
	for _, k := range token.Kinds() {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return token.Invalid, false
}

// suggestKinds returns up to three kind names close to name: fuzzy
// subsequence matches first, then names within edit distance 2.
func suggestKinds(name string) []string {
	kinds := token.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	ranks := fuzzy.RankFindNormalizedFold(name, names)
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, r := range ranks {
		if len(out) == cap(out) {
			return out
		}
		out = append(out, r.Target)
	}
	if len(out) > 0 {
		return out
	}

	lower := strings.ToLower(name)
	type scored struct {
		name string
		dist int
	}
	var near []scored
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(n)); d <= 2 {
			near = append(near, scored{n, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, s := range near {
		if len(out) == cap(out) {
			break
		}
		out = append(out, s.name)
	}
	return out
}
