package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) generateCommand() *cobra.Command {
	var productURL, language, tone string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate copy for a product URL and spend one credit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := domain.NewGenerationRequest(productURL, domain.Language(language), domain.Tone(tone))
			if err != nil {
				return err
			}

			st, err := c.openStore()
			if err != nil {
				return err
			}
			user, err := currentUser(cmd, st)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig(c.cfgFile)
			if err != nil {
				return err
			}
			gen, err := c.newGenerator(cmd.Context(), cfg.LLM, c.logger)
			if err != nil {
				return err
			}

			copies, err := service.NewCopyService(gen, st, st, c.logger,
				service.WithCreditEnforcement(cfg.Credits.Enforce))
			if err != nil {
				return err
			}

			record, balance, err := copies.Generate(cmd.Context(), user.ID, req)
			if err != nil {
				return describeFailure(err)
			}

			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), record)
			}
			printRecord(cmd.OutOrStdout(), record)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d credits remaining\n",
				balance.CreditsRemaining, balance.TotalCredits)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&productURL, "url", "", "product page URL (required)")
	flags.StringVar(&language, "language", string(domain.DefaultLanguage), "output language")
	flags.StringVar(&tone, "tone", string(domain.DefaultTone), "copywriting tone")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// describeFailure turns workflow errors into messages fit for a terminal.
func describeFailure(err error) error {
	var genErr *generation.Error
	switch {
	case errors.Is(err, service.ErrInsufficientCredits):
		return errors.New("no credits remaining: upgrade your plan to keep generating")
	case errors.As(err, &genErr):
		return fmt.Errorf("%s: %s", genErr.Kind, genErr.Message)
	default:
		return err
	}
}

func printRecord(w io.Writer, r *domain.GenerationRecord) {
	fmt.Fprintf(w, "%s  %s  %s / %s\n\n", r.ID, r.ProductURL, r.Language, r.Tone)
	fmt.Fprintf(w, "# %s\n\n", r.Content.Headline)
	for _, p := range r.Content.Paragraphs() {
		fmt.Fprintf(w, "%s\n\n", p)
	}
	for _, b := range r.Content.BulletPoints {
		fmt.Fprintf(w, "  - %s\n", b)
	}
	fmt.Fprintf(w, "\nSEO title:        %s\n", r.Content.SEOTitle)
	fmt.Fprintf(w, "Meta description: %s\n", r.Content.MetaDescription)
	fmt.Fprintf(w, "CTA:              %s\n", strings.TrimSpace(r.Content.CTALine))
}
