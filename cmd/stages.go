package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var stagesPipelinePath string

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Validate the stage pipeline configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pipe, err := loadPipeline(stagesPipelinePath)
		if err != nil {
			return err
		}

		for _, s := range pipe.Stages {
			fmt.Printf("%-16s weight=%5.1f keywords=%d\n", s.Name, s.WeightPercent, len(s.Keywords))
		}
		sum := pipe.WeightSum()
		fmt.Printf("total weight: %.1f\n", sum)

		if sum != 100 {
			zap.L().Warn("stage weights do not sum to 100",
				zap.Float64("weight_sum", sum),
			)
		}
		return nil
	},
}

func init() {
	stagesCmd.Flags().StringVar(&stagesPipelinePath, "pipeline", "", "path to pipeline YAML (default: configured path or built-in stages)")
	rootCmd.AddCommand(stagesCmd)
}
