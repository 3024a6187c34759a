package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jjfeed/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string

	flagCategory       string
	flagSort           string
	flagGithubCategory string
	flagLang           string
	flagPeriod         string
)

var rootCmd = &cobra.Command{
	Use:   "jjfeed",
	Short: "Juejin articles and GitHub trending in your terminal",
	Long: `jjfeed shows two feeds side by side: recommended Juejin articles with
infinite scroll, and trending GitHub repositories filtered by language and period.`,
	SilenceUsage: true,
	RunE:         runPanel,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.Flags().StringVar(&flagCategory, "category", "", "initial article category (home, frontend, backend, code life)")
	rootCmd.Flags().StringVar(&flagSort, "sort", "", "initial article sort (hot, new)")
	rootCmd.Flags().StringVar(&flagGithubCategory, "github-category", "", "initial GitHub category (trending, upcoming)")
	rootCmd.Flags().StringVar(&flagLang, "lang", "", "initial GitHub language")
	rootCmd.Flags().StringVar(&flagPeriod, "period", "", "initial GitHub period (day, week, month)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(githubCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "jjfeed %s (commit: %s, built: %s)\n", version, commit, date)
		if v := latestRelease(); v != "" {
			fmt.Fprintf(out, "Update available: v%s\n", v)
		}
	},
}

// latestRelease returns a newer released version, or "" for dev builds and
// failed checks.
func latestRelease() string {
	if version == "dev" {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if r := update.Check(ctx, version); r != nil {
		return r.LatestVersion
	}
	return ""
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
