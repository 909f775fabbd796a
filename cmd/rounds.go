package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gugudan/internal/store"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Inspect played boards (needs --db with a file)",
}

var roundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent board starts and finishes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		rounds, err := s.EventRepo().QueryRounds(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query rounds: %w", err)
		}
		printRounds(cmd.OutOrStdout(), rounds)
		return nil
	},
}

var roundsCardsCmd = &cobra.Command{
	Use:   "cards <session-id>",
	Short: "Show every graded card of one board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		cards, err := s.EventRepo().QueryCards(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query cards: %w", err)
		}
		if len(cards) == 0 {
			return fmt.Errorf("no cards recorded for board %s", args[0])
		}
		printCards(cmd.OutOrStdout(), cards)
		return nil
	},
}

func printRounds(w io.Writer, rounds []store.RoundEventRecord) {
	if len(rounds) == 0 {
		fmt.Fprintln(w, "No rounds found.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-36s  %-6s  %-6s  %5s  %5s  %7s  %5s\n",
		"Timestamp", "Board", "Action", "Mode", "Level", "Cards", "Correct", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 104))

	for _, r := range rounds {
		correct, score := "", ""
		if r.Action == store.RoundFinish {
			correct = fmt.Sprintf("%d/%d", r.Correct, r.Cards)
			score = fmt.Sprintf("%d", r.Score)
		}
		fmt.Fprintf(w, "%-19s  %-36s  %-6s  %-6s  %5d  %5d  %7s  %5s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(r.SessionID, 36),
			r.Action,
			r.Mode,
			r.Level,
			r.Cards,
			correct,
			score,
		)
	}
}

func printCards(w io.Writer, cards []store.CardEventRecord) {
	fmt.Fprintf(w, "%-4s  %-8s  %-3s  %-9s  %-7s  %7s  %s\n",
		"#", "Card", "", "Result", "Reason", "Ms", "Heard")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, c := range cards {
		mark := "✓"
		if c.Result != "correct" {
			mark = "✗"
		}
		index := fmt.Sprintf("%02d", c.CardIndex+1)
		if c.ParentIndex >= 0 {
			index = fmt.Sprintf("%02d", c.ParentIndex+1)
		}
		fmt.Fprintf(w, "%-4s  %-8s  %-3s  %-9s  %-7s  %7d  %s\n",
			index,
			fmt.Sprintf("%s=%d", strings.ReplaceAll(c.QuestionText, " ", ""), c.CorrectAnswer),
			mark,
			c.Result,
			c.Reason,
			c.TimeMs,
			c.HeardText,
		)
	}
}

func init() {
	roundsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	roundsListCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")

	roundsCmd.AddCommand(roundsListCmd)
	roundsCmd.AddCommand(roundsCardsCmd)
}
