// Conversa — transcript analytics pipeline.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/conversalabs/conversa/api"
	"github.com/conversalabs/conversa/internal/articles"
	"github.com/conversalabs/conversa/internal/config"
	"github.com/conversalabs/conversa/internal/llm"
	"github.com/conversalabs/conversa/internal/pipeline"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "conversa",
	Short: "Conversa — two-party transcript analytics pipeline",
	Long: `Conversa ingests a JSON corpus of two-party chat transcripts,
cleans and flattens it into a tabular view, scores per-participant
sentiment, aggregates dataset statistics, and generates tiered
natural-language summaries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("data", "", "dataset path override")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(summaryCmd)
}

// newOrchestrator builds the pipeline with whatever model backends the
// configuration provides; with none it runs on heuristics alone.
func newOrchestrator() *pipeline.Orchestrator {
	var opts []pipeline.Option

	router, err := llm.NewRouterFromConfig(cfg)
	switch {
	case err == nil:
		opts = append(opts, pipeline.WithProvider(router))
	case errors.Is(err, llm.ErrNoProviders):
		log.Println("no model providers configured; running on heuristics")
	default:
		log.Printf("model setup failed (%v); running on heuristics", err)
	}

	if cfg.Articles.FetchTitles || cfg.Articles.FeedURL != "" {
		opts = append(opts, pipeline.WithResolver(articles.NewResolver()))
	}
	return pipeline.New(cfg, opts...)
}

func overrideDataPath(cmd *cobra.Command, args []string) {
	if path, _ := cmd.Flags().GetString("data"); path != "" {
		cfg.Data.Path = path
	}
	if len(args) > 0 {
		cfg.Data.Path = args[0]
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Conversa %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		overrideDataPath(cmd, args)

		orch := newOrchestrator()
		if err := orch.Initialize(cmd.Context()); err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		log.Printf("starting Conversa API server on %s", addr)
		return api.NewServer(cfg, orch, version).ListenAndServe(addr)
	},
}

// --- Stats Command ---

var statsCmd = &cobra.Command{
	Use:   "stats [dataset.json]",
	Short: "Load a dataset and print its aggregate statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrideDataPath(cmd, args)

		orch := pipeline.New(cfg)
		if err := orch.Initialize(cmd.Context()); err != nil {
			return err
		}

		summary, err := orch.SummaryStats(cmd.Context())
		if err != nil {
			return err
		}
		// The narrative is printed separately by the summary command.
		summary.DatasetSummary = ""
		return printJSON(summary)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [transcript.json]",
	Short: "Analyze a single transcript file",
	Long: `Analyze one transcript and print per-participant sentiment, the
interaction dynamic, and a generated summary. The file may contain a
transcript record, a bare message array, or a map of transcripts
(the first entry is analyzed).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		orch := newOrchestrator()
		result, err := orch.Analyze(cmd.Context(), data)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// --- Summary Command ---

var summaryCmd = &cobra.Command{
	Use:   "summary [dataset.json]",
	Short: "Generate the dataset-level narrative summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrideDataPath(cmd, args)

		orch := newOrchestrator()
		if err := orch.Initialize(cmd.Context()); err != nil {
			return err
		}

		summary, err := orch.SummaryStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(summary.DatasetSummary)
		return nil
	},
}
