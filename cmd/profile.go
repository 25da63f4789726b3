package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/score"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the player profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileShowCmd.RunE(cmd, args)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current player's name and high score",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		k, err := rt.keeper(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "UID:        %s\n", k.UID())
		fmt.Fprintf(out, "Name:       %s\n", k.Profile().DisplayName)
		fmt.Fprintf(out, "High score: %d\n", k.HighScore())
		return nil
	},
}

var profileNameCmd = &cobra.Command{
	Use:   "name <display-name>",
	Short: "Change the display name shown on the leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		k, err := rt.keeper(cmd.Context())
		if err != nil {
			return err
		}

		name, err := k.SetDisplayName(cmd.Context(), args[0])
		if errors.Is(err, score.ErrEmptyName) {
			return errors.New("name cannot be empty")
		}
		if err != nil {
			return fmt.Errorf("save name: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Playing as %s\n", name)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileNameCmd)
}
