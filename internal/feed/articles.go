package feed

import (
	"strings"

	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
)

// TagSeparator joins an article's tags for display.
const TagSeparator = " · "

type Article struct {
	ID           string
	Title        string
	Tags         string
	Author       string
	Brief        string
	CommentCount int
	DiggCount    int
	ViewCount    int
}

// ArticlesFromItems maps raw recommendation items to view models.
func ArticlesFromItems(items []juejin.ArticleItem) []Article {
	out := make([]Article, 0, len(items))
	for _, it := range items {
		tags := make([]string, 0, len(it.Tags))
		for _, t := range it.Tags {
			tags = append(tags, cleanText(t.TagName))
		}
		out = append(out, Article{
			ID:           it.ArticleID,
			Title:        cleanText(it.ArticleInfo.Title),
			Tags:         strings.Join(tags, TagSeparator),
			Author:       cleanText(it.AuthorUserInfo.UserName),
			Brief:        cleanText(it.ArticleInfo.BriefContent),
			CommentCount: it.ArticleInfo.CommentCount,
			DiggCount:    it.ArticleInfo.DiggCount,
			ViewCount:    it.ArticleInfo.ViewCount,
		})
	}
	return out
}

// ArticleFeed accumulates pages of articles for one filter set.
type ArticleFeed struct {
	query   juejin.ArticleQuery
	items   []Article
	loading bool
	hasMore bool
	gen     generation
}

func NewArticleFeed(q juejin.ArticleQuery) *ArticleFeed {
	if q.Cursor == "" {
		q.Cursor = "0"
	}
	return &ArticleFeed{query: q, hasMore: true}
}

func (f *ArticleFeed) Query() juejin.ArticleQuery { return f.query }
func (f *ArticleFeed) Items() []Article { return f.items }
func (f *ArticleFeed) Loading() bool { return f.loading }
func (f *ArticleFeed) HasMore() bool { return f.hasMore }

// Refresh issues the current query again.
func (f *ArticleFeed) Refresh() bridge.FetchArticles {
	f.loading = true
	q := f.query
	return bridge.FetchArticles{Seq: f.gen.next(), Query: &q}
}

// SetCategory switches category, dropping accumulated pages.
func (f *ArticleFeed) SetCategory(id string) (bridge.FetchArticles, bool) {
	if id == f.query.CateID {
		return bridge.FetchArticles{}, false
	}
	f.reset(f.query.WithCategory(id))
	return f.Refresh(), true
}

// SetSort switches ranking, dropping accumulated pages.
func (f *ArticleFeed) SetSort(s juejin.SortType) (bridge.FetchArticles, bool) {
	if s == f.query.SortType {
		return bridge.FetchArticles{}, false
	}
	f.reset(f.query.WithSort(s))
	return f.Refresh(), true
}

// Reload starts over from the first page of the current filters.
func (f *ArticleFeed) Reload() bridge.FetchArticles {
	f.reset(f.query.WithCategory(f.query.CateID))
	return f.Refresh()
}

// LoadMore requests the next page. It refuses while a page is in flight or
// once the endpoint reported the end of the feed.
func (f *ArticleFeed) LoadMore() (bridge.FetchArticles, bool) {
	if f.loading || !f.hasMore {
		return bridge.FetchArticles{}, false
	}
	next, err := f.query.NextPage()
	if err != nil {
		return bridge.FetchArticles{}, false
	}
	f.query = next
	return f.Refresh(), true
}

// Apply appends a fetched page. Results for superseded requests are ignored.
func (f *ArticleFeed) Apply(res bridge.ArticlesFetched) bool {
	if !f.gen.isCurrent(res.Seq) {
		return false
	}
	f.items = append(f.items, ArticlesFromItems(res.Page.Data)...)
	f.hasMore = res.Page.HasMore
	f.loading = false
	return true
}

func (f *ArticleFeed) reset(q juejin.ArticleQuery) {
	f.query = q
	f.items = nil
	f.hasMore = true
}
