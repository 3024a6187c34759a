package cache

import "time"

// Kind tells which feed a visited item came from.
type Kind string

const (
	KindArticle Kind = "article"
	KindRepo    Kind = "repo"
)

// Visit records an item the user opened or copied.
type Visit struct {
	Kind      Kind
	ItemID    string
	Title     string
	URL       string
	VisitedAt time.Time
}

type QueryOpts struct {
	Kind  Kind
	Since time.Time
	Limit int
}
