package search

import "strings"

// tokenize splits a query into lowercase whitespace-delimited tokens.
// No stemming and no stop-word removal: matching is plain substring
// containment, which works for both Japanese compounds and English words.
func tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.ToLower(strings.TrimSpace(field))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// firstToken returns the first whitespace-delimited token of the query,
// or the whole trimmed query when it contains no spaces.
func firstToken(query string) string {
	if tokens := tokenize(query); len(tokens) > 0 {
		return tokens[0]
	}
	return strings.ToLower(strings.TrimSpace(query))
}
