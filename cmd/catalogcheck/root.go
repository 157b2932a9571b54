package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	httpserver "github.com/fairyhunter13/career-leader/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-leader/internal/app"
	"github.com/fairyhunter13/career-leader/internal/assessment"
	"github.com/fairyhunter13/career-leader/internal/config"
	"github.com/fairyhunter13/career-leader/internal/domain"
	"github.com/fairyhunter13/career-leader/internal/recommendation"
)

const appName = "catalogcheck"

// Actual version can be specified in build command.
var version = "unknown"

type options struct {
	questions string
	careers   string
	limit     int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Validate the assessment catalogs and preview recommendations",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), snap, opts.limit)
		},
	}
	root.PersistentFlags().StringVar(&opts.questions, "questions", "", "questions file (default: QUESTIONS_FILE or the bundled catalog)")
	root.PersistentFlags().StringVar(&opts.careers, "careers", "", "careers file (default: CAREERS_FILE or the bundled catalog)")
	root.PersistentFlags().IntVar(&opts.limit, "limit", recommendation.DefaultLimit, "recommendations per personality")

	root.AddCommand(newRecommendCmd(opts), newHashPasswordCmd(), newVersionCmd())
	return root
}

func newRecommendCmd(opts *options) *cobra.Command {
	var interests []string
	cmd := &cobra.Command{
		Use:   "recommend PERSONALITY",
		Short: "Rank the career catalog for one personality code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			recs := recommendation.Recommend(snap.Careers, args[0],
				recommendation.WithInterests(interests...),
				recommendation.WithLimit(opts.limit))
			w := cmd.OutOrStdout()
			for i, r := range recs {
				fmt.Fprintf(w, "%2d. %-28s score=%-3d personality=%-5t skills=%s\n",
					i+1, r.Title, r.Score, r.PersonalityMatch, strings.Join(r.MatchedSkills, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&interests, "interest", "i", nil, "interest tag (repeatable)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print an argon2id hash usable as ADMIN_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := httpserver.HashPassword(args[0], httpserver.DefaultArgon2Params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", appName, version)
		},
	}
}

func loadSnapshot(ctx context.Context, opts *options) (*domain.CatalogSnapshot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.questions != "" {
		cfg.QuestionsFile = opts.questions
	}
	if opts.careers != "" {
		cfg.CareersFile = opts.careers
	}
	return app.NewCatalogStore(cfg).Reload(ctx)
}

// printSummary writes catalog statistics and the top picks for every
// personality code referenced by the career catalog. It fails when a
// dimension has no question.
func printSummary(w io.Writer, snap *domain.CatalogSnapshot, limit int) error {
	fmt.Fprintf(w, "catalog version %s\n", snap.Version)
	fmt.Fprintf(w, "questions: %d\n", len(snap.Questions))
	perDim := map[domain.Dimension]int{}
	for _, q := range snap.Questions {
		perDim[q.Dimension]++
	}
	for _, d := range domain.Dimensions {
		fmt.Fprintf(w, "  %s: %d\n", d, perDim[d])
	}
	fmt.Fprintf(w, "careers: %d\n", len(snap.Careers))

	seen := map[string]bool{}
	var codes []string
	for _, c := range snap.Careers {
		for _, p := range c.Personalities {
			if !seen[p] {
				seen[p] = true
				codes = append(codes, p)
			}
		}
	}
	for _, code := range codes {
		recs := recommendation.Recommend(snap.Careers, code, recommendation.WithLimit(limit))
		titles := make([]string, 0, len(recs))
		for _, r := range recs {
			titles = append(titles, r.Title)
		}
		fmt.Fprintf(w, "%s -> %s\n", code, strings.Join(titles, ", "))
	}

	if err := assessment.CheckCatalog(snap.Questions); err != nil {
		return err
	}
	if len(snap.Careers) == 0 {
		return errors.New("career catalog is empty")
	}
	return nil
}
