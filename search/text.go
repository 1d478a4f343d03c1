package search

import (
	"strings"
	"unicode"
)

// Words ignored when deciding whether a summary mentions every query term.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {},
	"was": {}, "to": {}, "of": {}, "and": {}, "in": {}, "that": {},
	"have": {}, "it": {}, "for": {}, "not": {}, "on": {}, "with": {},
	"as": {}, "you": {}, "do": {}, "at": {}, "this": {}, "but": {},
	"by": {}, "from": {}, "book": {}, "about": {}, "what": {}, "which": {},
}

// terms lowercases text, splits it on anything that is not a letter or digit
// and drops stop words.
func terms(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, stop := stopWords[field]; stop {
			continue
		}
		set[field] = struct{}{}
	}
	return set
}

// mentionsAllTerms reports whether summary contains every significant term of query.
// A query made only of stop words matches nothing.
func mentionsAllTerms(summary, query string) bool {
	wanted := terms(query)
	if len(wanted) == 0 {
		return false
	}

	have := terms(summary)
	for term := range wanted {
		if _, ok := have[term]; !ok {
			return false
		}
	}
	return true
}
