package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/export"
	"github.com/sparetex/leadgen-cli/internal/pipeline"
	"github.com/sparetex/leadgen-cli/internal/store"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

var (
	runInput    string
	runNoSearch bool
	runWorkers  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline over a harvested lead CSV",
	Long: `Reads a lead CSV (company, country, website, context, source_type),
runs every stage from noise filtering through deep validation, and writes
accepted, rejected, and golden partitions to the output directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if runWorkers > 0 {
			cfg.Batch.Workers = runWorkers
		}

		leads, err := export.ReadLeads(runInput)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			return eris.Errorf("no leads in %s", runInput)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		var searchClient brave.Client
		if !runNoSearch && cfg.Brave.Key != "" {
			searchClient = brave.NewClient(cfg.Brave.Key, brave.WithBaseURL(cfg.Brave.BaseURL))
		} else {
			zap.L().Info("search disabled, static scoring only",
				zap.Bool("no_search_flag", runNoSearch))
		}

		p := pipeline.New(cfg, st, searchClient)
		result, err := p.Run(ctx, leads)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if pg, ok := st.(*store.PostgresStore); ok {
			archived, err := pg.ArchiveLeads(ctx, result.RunID, result.Accepted)
			if err != nil {
				zap.L().Warn("lead archive failed", zap.Error(err))
			} else {
				zap.L().Info("leads archived", zap.Int64("rows", archived))
			}
		}

		e := export.Exporter{OutputDir: cfg.Export.OutputDir, Format: cfg.Export.Format}
		paths, err := e.Write(result.Accepted, result.Rejected, result.Golden)
		if err != nil {
			return err
		}
		zap.L().Info("export complete", zap.Strings("paths", paths))

		fmt.Print(result.Summary.Render())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "path to lead CSV (required)")
	runCmd.Flags().BoolVar(&runNoSearch, "no-search", false, "skip web search stages (resolution and triangulation)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "deep-validation workers (overrides config)")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
