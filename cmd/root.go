package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Musical terminology trivia",
	Long:  "Lexicon is a terminal trivia game about the Italian, French and German words used in music.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default $XDG_CONFIG_HOME/lexicon/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXICON_DB env var)")
	rootCmd.PersistentFlags().String("store", "", "Storage backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().String("uid", "", "Play as this identity instead of the anonymous one")
	rootCmd.PersistentFlags().Bool("skip-intro", false, "Start on the main menu")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(termsCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
