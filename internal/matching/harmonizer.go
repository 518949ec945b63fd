package matching

import (
	"regexp"
	"strings"
)

var foldSpace = regexp.MustCompile(`\s+`)

// Harmonizer rewrites known drug-name variants to their preferred form
// before any comparison. The table is built once per run from curated
// data or prior run statistics and is read-only afterwards.
type Harmonizer struct {
	table map[string]string
}

// NewHarmonizer normalizes the alias table (lowercase, collapsed
// whitespace on both keys and values) and resolves alias chains to their
// terminal form. A chain that loops back on itself collapses onto a
// single representative, so a cyclic table can never flip a name back
// and forth between applications.
func NewHarmonizer(table map[string]string) *Harmonizer {
	entries := make(map[string]string, len(table))
	for k, v := range table {
		key := foldName(k)
		val := foldName(v)
		if key == "" || val == "" || key == val {
			continue
		}
		entries[key] = val
	}

	resolved := make(map[string]string, len(entries))
	for key := range entries {
		if terminal := chaseAlias(key, entries); terminal != key {
			resolved[key] = terminal
		}
	}

	return &Harmonizer{table: resolved}
}

// chaseAlias follows the alias chain from key until a value with no
// entry of its own. When the chain revisits a member, every name on the
// cycle collapses onto the lexicographically smallest one; the
// representative itself then maps to nothing and drops out of the table.
func chaseAlias(key string, entries map[string]string) string {
	path := []string{key}
	index := map[string]int{key: 0}
	current := key
	for {
		next, ok := entries[current]
		if !ok {
			return current
		}
		if at, looped := index[next]; looped {
			rep := path[at]
			for _, member := range path[at+1:] {
				if member < rep {
					rep = member
				}
			}
			return rep
		}
		index[next] = len(path)
		path = append(path, next)
		current = next
	}
}

// Apply returns the preferred form for a canonical name, or the input
// unchanged when the name has no known alias. Never an error.
func (h *Harmonizer) Apply(name string) string {
	folded := foldName(name)
	if preferred, ok := h.table[folded]; ok {
		return preferred
	}
	return folded
}

// ApplyTokens rewrites a canonical name through the alias table, whole
// name first and then token by token, repeating until the name stops
// changing. The fixpoint loop is what keeps the rewrite idempotent when
// a multi-word alias value contains tokens that are themselves alias
// keys; a seen set and an iteration bound keep it finite.
func (h *Harmonizer) ApplyTokens(name string) string {
	current := foldName(name)
	seen := map[string]struct{}{current: {}}
	for i := 0; i <= len(h.table); i++ {
		next := h.rewriteOnce(current)
		if next == current {
			break
		}
		current = next
		if _, looped := seen[current]; looped {
			break
		}
		seen[current] = struct{}{}
	}
	return current
}

func (h *Harmonizer) rewriteOnce(name string) string {
	if preferred, ok := h.table[name]; ok {
		return preferred
	}

	tokens := strings.Fields(name)
	changed := false
	for i, tok := range tokens {
		if preferred, ok := h.table[tok]; ok {
			tokens[i] = preferred
			changed = true
		}
	}
	if !changed {
		return name
	}
	return strings.Join(tokens, " ")
}

// Len reports how many alias entries survived normalization.
func (h *Harmonizer) Len() int {
	return len(h.table)
}

func foldName(s string) string {
	return strings.TrimSpace(foldSpace.ReplaceAllString(strings.ToLower(s), " "))
}
