package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparetex/leadgen-cli/internal/export"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/internal/model"
	"github.com/sparetex/leadgen-cli/internal/validate"
)

var (
	validateInput   string
	validateResume  string
	validateWorkers int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Deep-validate websites for a lead CSV",
	Long: `Crawls each lead's website (homepage plus key pages), extracts
contacts and on-site evidence, and assigns validation tiers. Skips the
search stages entirely; leads without a website are tiered as-is.
Progress is checkpointed so an interrupted batch can be inspected with
--resume.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if validateInput == "" && validateResume == "" {
			return eris.New("either --input or --resume is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		workers := cfg.Batch.Workers
		if validateWorkers > 0 {
			workers = validateWorkers
		}

		matcher := keywords.NewMatcher(keywords.Load(cfg.Keywords.TablePath))
		batch := validate.NewBatchValidator(
			validate.NewValidator(matcher, validate.Options{
				HardTimeout: time.Duration(cfg.Validate.HardTimeoutSecs) * time.Second,
				PageTimeout: time.Duration(cfg.Validate.PageTimeoutSecs) * time.Second,
			}),
			st,
			validate.BatchOptions{
				CheckpointEvery: cfg.Batch.CheckpointEvery,
				Workers:         workers,
			},
		)

		if validateResume != "" {
			cp, err := batch.Resume(ctx, validateResume)
			if err != nil {
				return eris.Wrap(err, "load checkpoint")
			}
			if cp == nil {
				return eris.Errorf("no checkpoint for run %s", validateResume)
			}
			fmt.Printf("Run %s: %d leads validated at last checkpoint\n", validateResume, cp.Processed)
			printTiers(tierHistogram(cp.Leads))
			return nil
		}

		leads, err := export.ReadLeads(validateInput)
		if err != nil {
			return err
		}

		run, err := st.CreateRun(ctx)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		result, err := batch.Run(ctx, run.ID, leads)
		if err != nil {
			return eris.Wrap(err, "validate batch")
		}
		if err := st.UpdateRun(ctx, run.ID, model.RunStatusComplete, len(result.Leads)); err != nil {
			zap.L().Warn("update run failed", zap.Error(err))
		}

		e := export.Exporter{OutputDir: cfg.Export.OutputDir, Format: cfg.Export.Format}
		paths, err := e.Write(result.Leads, nil, nil)
		if err != nil {
			return err
		}
		zap.L().Info("validation export complete",
			zap.String("run_id", run.ID), zap.Strings("paths", paths))

		fmt.Printf("Validated %d leads (run %s)\n", len(result.Leads), run.ID)
		printTiers(result.TierCounts)
		if len(result.FailReasons) > 0 {
			fmt.Print("Fetch failures:")
			reasons := make([]string, 0, len(result.FailReasons))
			for reason := range result.FailReasons {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)
			for _, reason := range reasons {
				fmt.Printf(" %s=%d", reason, result.FailReasons[reason])
			}
			fmt.Println()
		}
		return nil
	},
}

func tierHistogram(leads []model.Lead) map[int]int {
	counts := make(map[int]int)
	for _, lead := range leads {
		counts[lead.Tier]++
	}
	return counts
}

func printTiers(counts map[int]int) {
	fmt.Print("Tiers:")
	tiers := make([]int, 0, len(counts))
	for tier := range counts {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	for _, tier := range tiers {
		fmt.Printf(" T%d=%d", tier, counts[tier])
	}
	fmt.Println()
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "path to lead CSV")
	validateCmd.Flags().StringVar(&validateResume, "resume", "", "inspect the last checkpoint of a run ID instead of validating")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 0, "validation workers (overrides config)")
	rootCmd.AddCommand(validateCmd)
}
