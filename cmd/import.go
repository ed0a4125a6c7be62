package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/ingest"
)

var importMessagesPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a tagged message export into the local store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		messages, err := ingest.LoadMessages(importMessagesPath)
		if err != nil {
			return err
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.InsertMessages(ctx, messages); err != nil {
			return eris.Wrap(err, "import messages")
		}

		zap.L().Info("import complete",
			zap.Int("messages", len(messages)),
			zap.String("csv", importMessagesPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importMessagesPath, "messages", "", "path to message export CSV (required)")
	_ = importCmd.MarkFlagRequired("messages")
	rootCmd.AddCommand(importCmd)
}
