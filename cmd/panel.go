package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jjfeed/internal/bridge"
	"github.com/matheuskafuri/jjfeed/internal/cache"
	"github.com/matheuskafuri/jjfeed/internal/config"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
	"github.com/matheuskafuri/jjfeed/internal/logging"
	"github.com/matheuskafuri/jjfeed/internal/panel"
	"github.com/matheuskafuri/jjfeed/internal/tui"
)

// runPanel wires the host side (HTTP service) to the TUI through a bridge
// pipe and blocks until the panel is closed.
func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	articleQuery, err := applyArticleFlags(cfg.ArticleQuery(), flagCategory, flagSort)
	if err != nil {
		return err
	}
	githubQuery, err := applyGithubFlags(cfg.GithubQuery(), flagGithubCategory, flagLang, flagPeriod)
	if err != nil {
		return err
	}

	sock := config.SocketPath()
	if requestOpen(sock) {
		fmt.Fprintln(cmd.OutOrStdout(), "jjfeed is already open; revealed the running panel.")
		return nil
	}

	logger, closer, err := logging.OpenFile(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	streak, err := db.UpdateStreak()
	if err != nil {
		logger.Warn("updating streak", "error", err)
	}
	if n, err := db.Prune(cfg.RetentionDuration()); err != nil {
		logger.Warn("pruning history", "error", err)
	} else if n > 0 {
		logger.Info("pruned history", "deleted", n)
	}

	notices := tui.NewNotices(8)
	svc := juejin.NewService(juejin.NewClient(cfg.ClientOptions()), notices, logger)

	ui, hostEnd := bridge.Pipe(16)
	defer ui.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()
	go func() {
		if err := bridge.NewHost(svc, logger).Serve(ctx, hostEnd); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("host stopped", "error", err)
		}
	}()

	panels := panel.NewManager(func() (panel.Panel, error) {
		return tui.Start(tui.RunOpts{
			Endpoint:     ui,
			Notices:      notices,
			History:      db,
			Logger:       logger,
			ArticleQuery: articleQuery,
			GithubQuery:  githubQuery,
			Streak:       streak,
			CheckUpdate:  latestRelease,
		}), nil
	})

	p, _, err := panels.Open()
	if err != nil {
		return err
	}
	if ln, err := listenOpen(sock); err != nil {
		logger.Warn("later invocations will open their own panel", "error", err)
	} else {
		defer ln.Close()
		go serveOpen(ln, panels, logger)
	}
	go func() {
		<-ctx.Done()
		panels.Dispose()
	}()
	logger.Info("panel opened", "category", juejin.CategoryLabel(articleQuery.CateID), "lang", githubQuery.Lang)

	<-p.Done()
	if tp, ok := p.(*tui.Panel); ok {
		return tp.Err()
	}
	return nil
}

// applyArticleFlags overrides the configured article filters with
// non-empty flag values.
func applyArticleFlags(q juejin.ArticleQuery, category, sort string) (juejin.ArticleQuery, error) {
	if category != "" {
		c, ok := juejin.LookupCategory(category)
		if !ok {
			return q, fmt.Errorf("invalid --category %q (valid: home, frontend, backend, code life)", category)
		}
		q = q.WithCategory(c.ID)
	}
	if sort != "" {
		s, err := juejin.ParseSortType(sort)
		if err != nil {
			return q, fmt.Errorf("invalid --sort: %w", err)
		}
		q = q.WithSort(s)
	}
	return q, nil
}

func applyGithubFlags(q juejin.GithubQuery, category, lang, period string) (juejin.GithubQuery, error) {
	if category != "" {
		c, err := juejin.ParseGithubCategory(category)
		if err != nil {
			return q, fmt.Errorf("invalid --github-category: %w", err)
		}
		q.Category = c
	}
	if lang != "" {
		l, err := juejin.ParseLanguage(lang)
		if err != nil {
			return q, fmt.Errorf("invalid --lang: %w", err)
		}
		q.Lang = l
	}
	if period != "" {
		p, err := juejin.ParsePeriod(period)
		if err != nil {
			return q, fmt.Errorf("invalid --period: %w", err)
		}
		q.Period = p
	}
	return q, nil
}
