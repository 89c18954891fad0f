package domain

import "strings"

// FilterSummaries keeps the games whose name or topic contains term, ignoring case.
// An empty term keeps everything.
func FilterSummaries(games []GameSummary, term string) []GameSummary {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return games
	}
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Name), term) || strings.Contains(strings.ToLower(g.Topic), term) {
			out = append(out, g)
		}
	}
	return out
}
