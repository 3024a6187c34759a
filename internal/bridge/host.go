package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/matheuskafuri/jjfeed/internal/juejin"
	"github.com/matheuskafuri/jjfeed/internal/logging"
)

// FeedService performs the HTTP side of an intent. ok == false means the
// call failed and has already been reported to the user.
type FeedService interface {
	FetchArticles(ctx context.Context, q juejin.ArticleQuery) (juejin.ArticlesPage, bool)
	FetchGithubTrending(ctx context.Context, q juejin.GithubQuery) ([]juejin.Repo, bool)
}

// Host answers intents with results.
type Host struct {
	svc    FeedService
	logger *slog.Logger
}

func NewHost(svc FeedService, logger *slog.Logger) *Host {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Host{svc: svc, logger: logger}
}

// Handle decodes one intent, performs exactly one fetch and returns the reply.
// It returns false when nothing should be posted back: unknown types,
// malformed payloads and failed fetches.
func (h *Host) Handle(ctx context.Context, env Envelope) (Envelope, bool) {
	log := h.logger.With("type", env.Type, "id", env.ID, "seq", env.Seq)

	intent, err := DecodeIntent(env)
	switch {
	case errors.Is(err, ErrUnknownType):
		log.Warn("ignoring unrecognized message")
		return Envelope{}, false
	case err != nil:
		log.Debug("dropping malformed intent", "error", err)
		return Envelope{}, false
	}

	var res Result
	switch in := intent.(type) {
	case FetchArticles:
		q := juejin.DefaultArticleQuery()
		if in.Query != nil {
			q = *in.Query
		}
		page, ok := h.svc.FetchArticles(ctx, q)
		if !ok {
			return Envelope{}, false
		}
		res = ArticlesFetched{Seq: in.Seq, Page: page}
	case FetchGithubs:
		q := juejin.DefaultGithubQuery()
		if in.Query != nil {
			q = *in.Query
		}
		repos, ok := h.svc.FetchGithubTrending(ctx, q)
		if !ok {
			return Envelope{}, false
		}
		res = GithubsFetched{Seq: in.Seq, Repos: repos}
	}

	out, err := EncodeResult(res, env)
	if err != nil {
		log.Error("encoding result", "error", err)
		return Envelope{}, false
	}
	return out, true
}

// Serve answers intents arriving on ep until ctx is done or ep closes. Every
// intent is handled concurrently; in-flight fetches are neither de-duplicated
// nor cancelled by newer intents.
func (h *Host) Serve(ctx context.Context, ep *Endpoint) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		env, err := ep.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}

		wg.Add(1)
		go func(env Envelope) {
			defer wg.Done()
			out, ok := h.Handle(ctx, env)
			if !ok {
				return
			}
			if err := ep.Post(ctx, out); err != nil {
				h.logger.Debug("result not delivered", "type", out.Type, "error", err)
			}
		}(env)
	}
}
