package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/export"
	"github.com/sparetex/leadgen-cli/internal/model"
)

var (
	exportInput  string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a scored partition in another format",
	Long: `Reads a partition CSV produced by run, score, or validate and writes
it in the requested format. Mainly used to turn the accepted partition into
the per-tier XLSX workbook for the sales team.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		leads, err := export.ReadScored(exportInput)
		if err != nil {
			return err
		}

		var golden []model.Lead
		for _, lead := range leads {
			if lead.IsGolden {
				golden = append(golden, lead)
			}
		}

		e := export.Exporter{OutputDir: cfg.Export.OutputDir, Format: exportFormat}
		paths, err := e.Write(leads, nil, golden)
		if err != nil {
			return err
		}

		zap.L().Info("re-export complete",
			zap.String("input", exportInput), zap.Strings("paths", paths))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "path to a partition CSV (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format: csv or xlsx")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}
