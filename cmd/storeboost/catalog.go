package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/spf13/cobra"
)

const headlineWidth = 48

func (c *cli) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the session's generations, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			user, err := currentUser(cmd, st)
			if err != nil {
				return err
			}
			records, err := st.List(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No generations yet")
				return nil
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Created", "Language", "Tone", "Headline"})
			for _, r := range records {
				t.AppendRow(table.Row{
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Language,
					r.Tone,
					truncate(r.Content.Headline, headlineWidth),
				})
			}
			t.Render()
			return nil
		},
	}
}

func (c *cli) optionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List supported languages and tones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"languages": domain.Languages(),
					"tones":     domain.Tones(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Languages:")
			for _, l := range domain.Languages() {
				fmt.Fprintf(out, "  %s\n", l)
			}
			fmt.Fprintln(out, "Tones:")
			for _, t := range domain.Tones() {
				fmt.Fprintf(out, "  %s\n", t)
			}
			return nil
		},
	}
}

func (c *cli) plansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show the pricing plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans := domain.Plans()
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), plans)
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Plan", "Price", "Credits", "Model"})
			for _, p := range plans {
				credits := fmt.Sprint(p.MonthlyCredits)
				if p.Unlimited {
					credits = "Unlimited"
				}
				t.AppendRow(table.Row{p.Name, fmt.Sprintf("$%d/mo", p.PriceUSD), credits, p.Model})
			}
			t.Render()
			return nil
		},
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
