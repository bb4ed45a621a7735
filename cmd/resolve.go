package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sparetex/leadgen-cli/internal/evidence"
	"github.com/sparetex/leadgen-cli/internal/keywords"
	"github.com/sparetex/leadgen-cli/pkg/brave"
)

var (
	resolveCompany string
	resolveCountry string
	resolveWebsite string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one company's website and triangulate evidence",
	Long: `Finds the official website for a single company via web search,
then probes for stenter and OEM brand evidence. Prints the resolution and
evidence as JSON. Intended for spot checks and tuning.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Brave.Key == "" {
			return eris.New("brave search key is required (LEADGEN_BRAVE_KEY)")
		}

		client := brave.NewClient(cfg.Brave.Key, brave.WithBaseURL(cfg.Brave.BaseURL))
		cache := evidence.NewMemoryCache(cfg.Search.CacheTTL())
		searcher := evidence.NewSearcher(client, cache, rate.NewLimiter(rate.Limit(cfg.Search.RatePerSec), 1))

		resolution, err := evidence.NewResolver(searcher).Resolve(ctx, resolveCompany, resolveCountry, resolveWebsite)
		if err != nil {
			return eris.Wrap(err, "resolve website")
		}

		website := resolveWebsite
		if resolution != nil {
			website = resolution.Website
		}

		matcher := keywords.NewMatcher(keywords.Load(cfg.Keywords.TablePath))
		ev, err := evidence.NewFinder(searcher, matcher).FindEvidence(ctx, resolveCompany, website, resolveCountry)
		if err != nil {
			return eris.Wrap(err, "find evidence")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Resolution *evidence.Resolution `json:"resolution"`
			Evidence   *evidence.Evidence   `json:"evidence"`
		}{resolution, ev})
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCompany, "company", "", "company name (required)")
	resolveCmd.Flags().StringVar(&resolveCountry, "country", "", "country for TLD-restricted search")
	resolveCmd.Flags().StringVar(&resolveWebsite, "website", "", "known website, if any")
	_ = resolveCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(resolveCmd)
}
