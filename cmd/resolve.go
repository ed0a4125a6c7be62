package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/ingest"
	"github.com/sells-group/commission-cli/internal/match"
	"github.com/sells-group/commission-cli/internal/normalize"
)

var (
	resolveCatalogPath    string
	resolveCandidatesPath string
	resolveUnique         bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Match external identifiers to catalog companies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		companies, err := ingest.LoadCompanies(resolveCatalogPath)
		if err != nil {
			return err
		}
		candidates, err := ingest.LoadCandidates(resolveCandidatesPath)
		if err != nil {
			return err
		}

		resolver := match.NewResolver(match.NewScorer(normalize.New(cfg.Match.Suffixes...)))
		results := resolver.Resolve(companies, candidates)
		if resolveUnique {
			results = match.ReduceBestPerCandidate(results)
		}

		matched := 0
		ambiguous := 0
		for _, r := range results {
			if r.Matched() {
				matched++
			}
			if r.Ambiguous {
				ambiguous++
			}
		}
		unresolved := match.Unresolved(candidates, results)
		for _, u := range unresolved {
			zap.L().Warn("resolve: unresolved candidate",
				zap.String("source", string(u.Candidate.Source)),
				zap.String("raw", u.Candidate.Raw),
			)
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SaveMatchResults(ctx, results); err != nil {
			return eris.Wrap(err, "save match results")
		}

		zap.L().Info("resolve complete",
			zap.Int("companies", len(companies)),
			zap.Int("candidates", len(candidates)),
			zap.Int("matched", matched),
			zap.Int("ambiguous", ambiguous),
			zap.Int("unresolved", len(unresolved)),
		)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCatalogPath, "catalog", "", "path to company catalog CSV (required)")
	resolveCmd.Flags().StringVar(&resolveCandidatesPath, "candidates", "", "path to candidate identifiers CSV (required)")
	resolveCmd.Flags().BoolVar(&resolveUnique, "unique", false, "enforce at most one company per candidate")
	_ = resolveCmd.MarkFlagRequired("catalog")
	_ = resolveCmd.MarkFlagRequired("candidates")
	rootCmd.AddCommand(resolveCmd)
}
