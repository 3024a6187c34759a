package feed

import (
	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

// GithubPageSize is the number of repositories requested per refresh.
const GithubPageSize = 30

type Repo struct {
	ID            int
	Owner         string
	Name          string
	Description   string
	Language      string
	LanguageColor string
	Stars         int
	Forks         int
}

func (r Repo) FullName() string { return r.Owner + "/" + r.Name }

func (r Repo) HTMLURL() string { return "https://github.com/" + r.FullName() }

func ReposFromItems(items []juejin.Repo) []Repo {
	out := make([]Repo, 0, len(items))
	for _, it := range items {
		out = append(out, Repo{
			ID:            it.ID,
			Owner:         it.Username,
			Name:          it.Reponame,
			Description:   cleanText(it.Description),
			Language:      string(it.Lang),
			LanguageColor: it.LangColor,
			Stars:         it.StarCount,
			Forks:         it.ForkCount,
		})
	}
	return out
}

// GithubFeed shows one list of repositories; every filter change replaces it.
type GithubFeed struct {
	query   juejin.GithubQuery
	items   []Repo
	loading bool
	gen     generation
}

func NewGithubFeed(q juejin.GithubQuery) *GithubFeed {
	if q.Limit <= 0 {
		q.Limit = GithubPageSize
	}
	q.Offset = 0
	return &GithubFeed{query: q}
}

func (f *GithubFeed) Query() juejin.GithubQuery { return f.query }

func (f *GithubFeed) Items() []Repo { return f.items }

func (f *GithubFeed) Loading() bool { return f.loading }

func (f *GithubFeed) Refresh() bridge.FetchGithubs {
	f.loading = true
	q := f.query
	return bridge.FetchGithubs{Seq: f.gen.next(), Query: &q}
}

func (f *GithubFeed) SetCategory(c juejin.GithubCategory) (bridge.FetchGithubs, bool) {
	if c == f.query.Category {
		return bridge.FetchGithubs{}, false
	}
	f.query.Category = c
	return f.Refresh(), true
}

func (f *GithubFeed) SetPeriod(p juejin.Period) (bridge.FetchGithubs, bool) {
	if p == f.query.Period {
		return bridge.FetchGithubs{}, false
	}
	f.query.Period = p
	return f.Refresh(), true
}

func (f *GithubFeed) SetLanguage(l juejin.Language) (bridge.FetchGithubs, bool) {
	if l == f.query.Lang {
		return bridge.FetchGithubs{}, false
	}
	f.query.Lang = l
	return f.Refresh(), true
}

// Apply replaces the list with a fetched one. Results for superseded
// requests are ignored.
func (f *GithubFeed) Apply(res bridge.GithubsFetched) bool {
	if !f.gen.isCurrent(res.Seq) {
		return false
	}
	f.items = ReposFromItems(res.Repos)
	f.loading = false
	return true
}
