package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jjfeed/internal/cache"
	"github.com/matheuskafuri/jjfeed/internal/config"
)

var (
	flagPruneOlderThan string
	flagHistoryLimit   int
	flagHistoryKind    string
	flagHistorySince   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened articles and repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cache.QueryOpts{Limit: flagHistoryLimit}
		switch cache.Kind(flagHistoryKind) {
		case "":
		case cache.KindArticle, cache.KindRepo:
			opts.Kind = cache.Kind(flagHistoryKind)
		default:
			return fmt.Errorf("invalid --kind %q (valid: article, repo)", flagHistoryKind)
		}
		if flagHistorySince != "" {
			d, err := config.ParseDays(flagHistorySince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		visits, err := db.GetVisits(opts)
		if err != nil {
			return err
		}
		if len(visits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}

		rows := make([][]string, 0, len(visits))
		for _, v := range visits {
			rows = append(rows, []string{
				v.VisitedAt.Local().Format("2006-01-02 15:04"),
				string(v.Kind),
				shorten(v.Title, 48),
				v.URL,
			})
		}
		return renderTable(cmd.OutOrStdout(), []string{"Visited", "Kind", "Title", "URL"}, rows)
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old entries from the visit history",
	Long: `Delete visits older than the retention period and reclaim disk space.

Uses the retention value from config (default: 90d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDays(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d visit(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "History: %s\n", dbPath)
		fmt.Fprintf(out, "Visits: %d\n", count)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")

	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "number of entries to show")
	historyCmd.Flags().StringVar(&flagHistoryKind, "kind", "", "only show article or repo visits")
	historyCmd.Flags().StringVar(&flagHistorySince, "since", "", "only show visits from the last duration (e.g., 7d, 24h)")
}

func formatDuration(d time.Duration) string {
	h := d.Hours()
	days := int(h / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(h))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
