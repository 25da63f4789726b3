package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/store"
)

const shortIDLen = 8

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Inspect answer-judging events",
}

var judgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent judge events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.events.List(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No judge events found.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-19s  %-18s  %-24s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Term", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 108))

		for _, e := range events {
			ok := "✓"
			switch {
			case e.Fallback:
				ok = "local"
			case !e.Success:
				ok = "✗"
			}
			fmt.Fprintf(out, "%-8s  %-19s  %-18s  %-24s  %-6d  %-6d  %-7d  %s\n",
				truncate(e.ID, shortIDLen),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Term, 18),
				truncate(e.Model, 24),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var judgeViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for a judge event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := findEvent(cmd.Context(), rt.events, args[0])
		if err != nil {
			return err
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var judgeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated judge token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.events.List(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No judge usage recorded yet.")
			return nil
		}
		printStats(out, events)
		return nil
	},
}

// findEvent resolves a full ID or a unique prefix as printed by list.
func findEvent(ctx context.Context, events store.JudgeEventRepo, id string) (store.JudgeEvent, error) {
	e, err := events.Get(ctx, id)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.JudgeEvent{}, fmt.Errorf("get event: %w", err)
	}

	all, err := events.List(ctx, store.QueryOpts{})
	if err != nil {
		return store.JudgeEvent{}, fmt.Errorf("query events: %w", err)
	}
	matches := lo.Filter(all, func(e store.JudgeEvent, _ int) bool {
		return strings.HasPrefix(e.ID, id)
	})
	switch len(matches) {
	case 0:
		return store.JudgeEvent{}, fmt.Errorf("event %s not found", id)
	case 1:
		return matches[0], nil
	default:
		return store.JudgeEvent{}, fmt.Errorf("event prefix %s is ambiguous (%d matches)", id, len(matches))
	}
}

func printEvent(w io.Writer, e store.JudgeEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %s\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Term:      %s\n", e.Term)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.Fallback {
		fmt.Fprintln(w, "Fallback:  matched locally")
	}
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.title)
		fmt.Fprintln(w, sep)
		if part.body != "" {
			fmt.Fprintln(w, part.body)
		} else {
			fmt.Fprintln(w, "(not captured)")
		}
	}
}

// usage aggregates events sharing a purpose or model.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// summarize groups events by key, sorted by key.
func summarize(events []store.JudgeEvent, key func(store.JudgeEvent) string) []usage {
	groups := lo.GroupBy(events, key)
	out := make([]usage, 0, len(groups))
	for k, evs := range groups {
		u := usage{Key: k, Calls: len(evs)}
		var latency int64
		for _, e := range evs {
			u.InputTokens += e.InputTokens
			u.OutputTokens += e.OutputTokens
			latency += e.LatencyMs
		}
		u.AvgLatencyMs = latency / int64(len(evs))
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func printStats(w io.Writer, events []store.JudgeEvent) {
	byPurpose := summarize(events, func(e store.JudgeEvent) string { return e.Purpose })

	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var totalCalls, totalIn, totalOut int
	for _, st := range byPurpose {
		total := st.InputTokens + st.OutputTokens
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			st.Key, st.Calls, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
		totalCalls += st.Calls
		totalIn += st.InputTokens
		totalOut += st.OutputTokens
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
		"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

	// Fallback rows carry no model and cost nothing.
	billed := lo.Filter(events, func(e store.JudgeEvent, _ int) bool { return !e.Fallback })
	byModel := summarize(billed, func(e store.JudgeEvent) string { return e.Model })
	if len(byModel) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var totalCost float64
	var unknownModels []string
	for _, mu := range byModel {
		cost := llm.LookupCost(mu.Key)
		if cost == nil {
			unknownModels = append(unknownModels, mu.Key)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n",
		label, "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	judgeListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	judgeListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. judge)")

	judgeCmd.AddCommand(judgeListCmd)
	judgeCmd.AddCommand(judgeViewCmd)
	judgeCmd.AddCommand(judgeStatsCmd)
}
