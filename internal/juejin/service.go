package juejin

import (
	"context"
	"log/slog"

	"github.com/matheuskafuri/jjfeed/internal/logging"
)

// FailureNotice is shown to the user whenever a fetch fails.
const FailureNotice = "failed to fetch data"

// Fetcher is implemented by *Client.
type Fetcher interface {
	Articles(ctx context.Context, q ArticleQuery) (*ArticlesPage, error)
	Githubs(ctx context.Context, q GithubQuery) (*GithubPage, error)
}

// Notifier surfaces a transient, user-visible message.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Service wraps a Fetcher with the feed failure policy: errors are logged,
// reported once through the Notifier, and turned into ok == false.
type Service struct {
	fetcher Fetcher
	notify  Notifier
	logger  *slog.Logger
}

func NewService(fetcher Fetcher, notify Notifier, logger *slog.Logger) *Service {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{fetcher: fetcher, notify: notify, logger: logger}
}

// FetchArticles returns the decoded response body verbatim.
func (s *Service) FetchArticles(ctx context.Context, q ArticleQuery) (ArticlesPage, bool) {
	page, err := s.fetcher.Articles(ctx, q)
	if err != nil {
		s.fail(err, "cate_id", q.CateID, "cursor", q.Cursor, "sort", q.SortType.String())
		return ArticlesPage{}, false
	}
	s.logger.Debug("articles fetched", "cate_id", q.CateID, "cursor", q.Cursor, "count", len(page.Data), "has_more", page.HasMore)
	return *page, true
}

// FetchGithubTrending returns the data field of the response body.
func (s *Service) FetchGithubTrending(ctx context.Context, q GithubQuery) ([]Repo, bool) {
	page, err := s.fetcher.Githubs(ctx, q)
	if err != nil {
		s.fail(err, "category", string(q.Category), "lang", string(q.Lang), "period", string(q.Period))
		return nil, false
	}
	s.logger.Debug("github repos fetched", "category", q.Category, "lang", q.Lang, "count", len(page.Data))
	return page.Data, true
}

func (s *Service) fail(err error, args ...any) {
	s.logger.Warn("fetch failed", append([]any{"error", err}, args...)...)
	s.notify.Notify(FailureNotice)
}
