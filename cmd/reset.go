package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the current player's profile and leaderboard entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		k, err := rt.keeper(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !yes {
			fmt.Fprintf(out, "Delete profile %q (high score %d)? [y/N] ",
				k.Profile().DisplayName, k.HighScore())
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := rt.profiles.Delete(ctx, k.UID()); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := rt.board.Delete(ctx, k.UID()); err != nil {
			return fmt.Errorf("delete leaderboard entry: %w", err)
		}
		fmt.Fprintln(out, "Profile reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
