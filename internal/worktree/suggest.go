package worktree

import "github.com/sahilm/fuzzy"

const maxSuggestions = 3

// Suggest returns up to three names that fuzzy-match name, best first.
func Suggest(name string, names []string) []string {
	var out []string
	for _, m := range fuzzy.Find(name, names) {
		if m.Str == name {
			continue
		}
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
