package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/commission-cli/internal/report"
)

var (
	reportRunID  string
	reportOut    string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an attribution report for a run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		runID := reportRunID
		if runID == "" {
			run, err := s.LatestRun(ctx)
			if err != nil {
				return err
			}
			if run == nil {
				return eris.New("no attribution runs found; run attribute first")
			}
			runID = run.ID
		}

		records, err := s.ListAttributionRecords(ctx, runID)
		if err != nil {
			return err
		}

		format := reportFormat
		if format == "" {
			format = cfg.Report.Format
		}

		switch format {
		case "xlsx":
			if reportOut == "" {
				return eris.New("xlsx output requires --out")
			}
			if err := report.WriteXLSX(reportOut, records); err != nil {
				return err
			}
		case "csv", "":
			w := os.Stdout
			if reportOut != "" {
				f, err := os.Create(reportOut)
				if err != nil {
					return eris.Wrapf(err, "create %s", reportOut)
				}
				defer f.Close()
				w = f
			}
			if err := report.WriteCSV(w, records); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown report format %q", format)
		}

		zap.L().Info("report written",
			zap.String("run_id", runID),
			zap.String("format", format),
			zap.Int("companies", len(records)),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "attribution run ID (default: latest)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file path (default: stdout for csv)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "csv or xlsx (default: configured format)")
	rootCmd.AddCommand(reportCmd)
}
