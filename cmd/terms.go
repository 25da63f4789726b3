package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/terms"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List the term catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _ := cmd.Flags().GetString("rarity")

		list := terms.All()
		if r != "" {
			tier, err := rarity.Parse(r)
			if err != nil {
				return err
			}
			list = terms.ByRarity(tier)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-28s  %-28s  %-8s  %-10s  %3s\n",
			"Term", "Translation", "Language", "Rarity", "XP")
		fmt.Fprintln(out, strings.Repeat("─", 86))
		for _, t := range list {
			fmt.Fprintf(out, "%-28s  %-28s  %-8s  %-10s  %3d\n",
				truncate(t.Term, 28), truncate(t.Translation, 28), t.LangDisplayName(),
				t.Rarity.DisplayName(), t.Rarity.XP())
		}
		fmt.Fprintf(out, "\n%d terms\n", len(list))
		return nil
	},
}

func init() {
	termsCmd.Flags().StringP("rarity", "r", "", "Only show terms of this rarity (common, rare, legendary, mythical)")
}
