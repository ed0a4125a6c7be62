package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/attribution"
	"github.com/sells-group/commission-cli/internal/ingest"
	"github.com/sells-group/commission-cli/internal/model"
)

var (
	attributePipelinePath string
	attributeRosterPath   string
)

var attributeCmd = &cobra.Command{
	Use:   "attribute",
	Short: "Compute per-participant credit splits from the stored message stream",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipe, err := loadPipeline(attributePipelinePath)
		if err != nil {
			return err
		}
		if sum := pipe.WeightSum(); sum != 100 {
			zap.L().Warn("stage weights do not sum to 100; raw totals will reflect that",
				zap.Float64("weight_sum", sum),
			)
		}

		var participants []model.AuthorizedParticipant
		if attributeRosterPath != "" {
			participants, err = ingest.LoadRoster(attributeRosterPath)
			if err != nil {
				return err
			}
		}
		roster := attribution.NewRoster(participants, cfg.Attribution.UnauthorizedWeight)

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		messages, err := s.ListMessages(ctx)
		if err != nil {
			return err
		}
		byCompany := ingest.GroupMessagesByCompany(messages)

		run, err := s.CreateRun(ctx)
		if err != nil {
			return err
		}

		records, err := attribution.AttributeAll(ctx, byCompany, pipe, roster, cfg.Attribution.MaxConcurrentCompanies)
		if err != nil {
			if ferr := s.CompleteRun(ctx, run.ID, model.RunStatusFailed, 0); ferr != nil {
				zap.L().Warn("mark run failed", zap.Error(ferr))
			}
			return eris.Wrap(err, "attribute")
		}

		if err := s.SaveAttributionRecords(ctx, run.ID, records); err != nil {
			return eris.Wrap(err, "save attribution records")
		}
		if err := s.CompleteRun(ctx, run.ID, model.RunStatusComplete, len(records)); err != nil {
			return eris.Wrap(err, "complete run")
		}

		zap.L().Info("attribution complete",
			zap.String("run_id", run.ID),
			zap.Int("messages", len(messages)),
			zap.Int("companies", len(records)),
		)
		return nil
	},
}

func init() {
	attributeCmd.Flags().StringVar(&attributePipelinePath, "pipeline", "", "path to pipeline YAML (default: configured path or built-in stages)")
	attributeCmd.Flags().StringVar(&attributeRosterPath, "roster", "", "path to authorized-participant CSV")
	rootCmd.AddCommand(attributeCmd)
}
