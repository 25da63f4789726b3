package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/store"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the shared leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("top")
		watch, _ := cmd.Flags().GetBool("watch")
		if n < 1 {
			return fmt.Errorf("--top must be at least 1, got %d", n)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		if !watch {
			entries, err := rt.board.Top(cmd.Context(), n)
			if err != nil {
				return fmt.Errorf("query leaderboard: %w", err)
			}
			printLeaderboard(out, entries)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cancel, err := rt.board.Watch(ctx, n, func(entries []store.LeaderboardEntry) {
			printLeaderboard(out, entries)
			fmt.Fprintln(out)
		})
		if err != nil {
			return fmt.Errorf("watch leaderboard: %w", err)
		}
		defer cancel()

		<-ctx.Done()
		return nil
	},
}

func printLeaderboard(w io.Writer, entries []store.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scores yet.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-20s  %6s\n", "#", "Name", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 34))
	for i, e := range entries {
		fmt.Fprintf(w, "%-4d  %-20s  %6d\n", i+1, truncate(e.DisplayName, 20), e.Score)
	}
}

func init() {
	leaderboardCmd.Flags().IntP("top", "n", 5, "Number of entries to show")
	leaderboardCmd.Flags().BoolP("watch", "w", false, "Keep printing the board as it changes")
}
