package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/export"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/pipeline"
)

var scoreInput string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Statically score a lead CSV without network calls",
	Long: `Runs the offline stages only: noise filtering, role and entity
classification, keyword extraction over the harvested text, and SCE scoring.
No web search, no crawling, no database. Useful for a fast first cut of a
large harvest before spending search quota on it.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		leads, err := export.ReadLeads(scoreInput)
		if err != nil {
			return err
		}

		p := pipeline.New(cfg, nil, nil)

		var accepted, rejected []model.Lead
		salesReady := 0
		for i := range leads {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Process(ctx, &leads[i])
			if leads[i].RejectionReason != "" {
				rejected = append(rejected, leads[i])
				continue
			}
			accepted = append(accepted, leads[i])
			if leads[i].SCE.SalesReady {
				salesReady++
			}
		}

		e := export.Exporter{OutputDir: cfg.Export.OutputDir, Format: cfg.Export.Format}
		paths, err := e.Write(accepted, rejected, nil)
		if err != nil {
			return err
		}
		zap.L().Info("static scoring complete", zap.Strings("paths", paths))

		fmt.Printf("Scored %d leads: accepted=%d rejected=%d sales-ready=%d\n",
			len(leads), len(accepted), len(rejected), salesReady)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "path to lead CSV (required)")
	_ = scoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scoreCmd)
}
