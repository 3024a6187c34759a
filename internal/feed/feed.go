// Package feed holds the view models of the two feeds: filter state,
// pagination and the mapping from raw API items to display rows.
package feed

import "strings"

// cleanText collapses runs of whitespace. The API fields are plain text,
// so angle brackets and entities are kept as written.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// generation hands out request tokens. Only a result carrying the latest
// token is applied, so a slow response to a superseded query is dropped.
type generation struct {
	current uint64
}

func (g *generation) next() uint64 {
	g.current++
	return g.current
}

func (g *generation) isCurrent(seq uint64) bool {
	return seq != 0 && seq == g.current
}
