package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jjfeed/internal/browser"
	"github.com/matheuskafuri/jjfeed/internal/config"
	"github.com/matheuskafuri/jjfeed/internal/feed"
	"github.com/matheuskafuri/jjfeed/internal/juejin"
	"github.com/matheuskafuri/jjfeed/internal/logging"
)

var (
	flagPageCursor string
	flagPageLimit  int
	flagPageOffset int
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Print one page of recommended Juejin articles",
	Example: `  jjfeed articles --category backend --sort new
  jjfeed articles --cursor 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, err := loadService()
		if err != nil {
			return err
		}
		q, err := applyArticleFlags(cfg.ArticleQuery(), cmdString(cmd, "category"), cmdString(cmd, "sort"))
		if err != nil {
			return err
		}
		if flagPageCursor != "" {
			q.Cursor = flagPageCursor
		}
		if flagPageLimit > 0 {
			q.Limit = flagPageLimit
		}
		if err := q.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout()+5*time.Second)
		defer cancel()
		page, ok := svc.FetchArticles(ctx, q)
		if !ok {
			return errors.New(juejin.FailureNotice)
		}

		var rows [][]string
		for _, a := range feed.ArticlesFromItems(page.Data) {
			rows = append(rows, []string{
				shorten(a.Title, 48),
				shorten(a.Author, 16),
				shorten(a.Tags, 24),
				strconv.Itoa(a.DiggCount),
				strconv.Itoa(a.ViewCount),
				browser.ArticleURL(a.ID),
			})
		}
		out := cmd.OutOrStdout()
		if err := renderTable(out, []string{"Title", "Author", "Tags", "Likes", "Views", "URL"}, rows); err != nil {
			return err
		}
		if page.HasMore {
			if next, err := q.NextPage(); err == nil {
				fmt.Fprintf(out, "\nMore: jjfeed articles --cursor %s\n", next.Cursor)
			}
		}
		return nil
	},
}

var githubCmd = &cobra.Command{
	Use:     "github",
	Short:   "Print trending GitHub repositories",
	Example: `  jjfeed github --lang rust --period week`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, err := loadService()
		if err != nil {
			return err
		}
		q, err := applyGithubFlags(cfg.GithubQuery(), cmdString(cmd, "category"), cmdString(cmd, "lang"), cmdString(cmd, "period"))
		if err != nil {
			return err
		}
		if flagPageLimit > 0 {
			q.Limit = flagPageLimit
		}
		if flagPageOffset > 0 {
			q.Offset = flagPageOffset
		}
		if err := q.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout()+5*time.Second)
		defer cancel()
		repos, ok := svc.FetchGithubTrending(ctx, q)
		if !ok {
			return errors.New(juejin.FailureNotice)
		}

		var rows [][]string
		for _, r := range feed.ReposFromItems(repos) {
			rows = append(rows, []string{
				r.FullName(),
				r.Language,
				strconv.Itoa(r.Stars),
				strconv.Itoa(r.Forks),
				shorten(r.Description, 60),
			})
		}
		return renderTable(cmd.OutOrStdout(), []string{"Repository", "Language", "Stars", "Forks", "Description"}, rows)
	},
}

func init() {
	articlesCmd.Flags().String("category", "", "article category (home, frontend, backend, code life)")
	articlesCmd.Flags().String("sort", "", "sort order (hot, new)")
	articlesCmd.Flags().StringVar(&flagPageCursor, "cursor", "", "page cursor")
	articlesCmd.Flags().IntVar(&flagPageLimit, "limit", 0, "page size")

	githubCmd.Flags().String("category", "", "trending or upcoming")
	githubCmd.Flags().String("lang", "", "language (javascript, rust, typescript, vue, html, css)")
	githubCmd.Flags().String("period", "", "day, week or month")
	githubCmd.Flags().IntVar(&flagPageLimit, "limit", 0, "number of repositories")
	githubCmd.Flags().IntVar(&flagPageOffset, "offset", 0, "number of repositories to skip")
}

func cmdString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// loadService builds the feed service for one-shot commands, logging to
// stderr.
func loadService() (*config.Config, *juejin.Service, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)
	return cfg, juejin.NewService(juejin.NewClient(cfg.ClientOptions()), nil, logger), nil
}
