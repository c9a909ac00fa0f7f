package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"regrow/internal/engine"
	"regrow/internal/logging"
	"regrow/internal/params"
	"regrow/internal/results"
	"regrow/internal/runner"
	"regrow/internal/scenario"
	"regrow/internal/sweep"
	"regrow/internal/workspace"
)

var version = "0.1.0-dev"

// combinedName is the aggregated output written next to the per-scenario
// CSVs.
const combinedName = "all_scenarios_combined.csv"

func main() {
	rootCmd := &cobra.Command{
		Use:   "regrow",
		Short: "Post-fire vegetation recovery scenario comparison",
		Long: `regrow simulates post-fire tree-cohort recovery under invasive-species
pressure across a fixed set of counterfactual scenarios and merges the
per-scenario outputs into one comparable dataset.`,
	}

	rootCmd.PersistentFlags().String("config", "regrow.yaml", "Workspace configuration file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newCombineCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("regrow version %s\n", version)
		},
	}
}

func loadWorkspace(cmd *cobra.Command) (*workspace.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := workspace.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("workspace config: %w", err)
	}
	return cfg, nil
}

// loadParams reads the base parameter file and layers the configured
// override fragments over it in order.
func loadParams(cfg *workspace.Config) (*params.Store, error) {
	store, err := params.Load(cfg.Params)
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.Overrides {
		fragment, err := params.Load(path)
		if err != nil {
			return nil, err
		}
		store.Merge(fragment)
	}
	return store, nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all scenarios and combine their outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger(cfg.LogLevel, os.Stderr)

			store, err := loadParams(cfg)
			if err != nil {
				return err
			}
			log.Info("parameters loaded", "count", store.Len(), "path", cfg.Params)

			eng, err := engine.New(cfg.Engine.Kind, engine.Config{
				Command: cfg.Engine.Command,
				WorkDir: cfg.ResultsDir,
			})
			if err != nil {
				return err
			}

			summary, err := runner.Run(context.Background(), runner.Options{
				Store:        store,
				Engine:       eng,
				ResultsDir:   cfg.ResultsDir,
				FireDataPath: cfg.FireData,
				Seed:         cfg.Seed,
				Replicates:   cfg.Replicates,
				Log:          log,
			})
			if err != nil {
				return err
			}
			if summary.Succeeded == 0 {
				return fmt.Errorf("no scenario succeeded")
			}

			sqlitePath, _ := cmd.Flags().GetString("sqlite")
			return combine(cmd, cfg, log, sqlitePath)
		},
	}
	cmd.Flags().String("sqlite", "", "Also export the combined dataset to this SQLite database")
	return cmd
}

func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Combine existing per-scenario outputs into one dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger(cfg.LogLevel, os.Stderr)
			sqlitePath, _ := cmd.Flags().GetString("sqlite")
			return combine(cmd, cfg, log, sqlitePath)
		},
	}
	cmd.Flags().String("sqlite", "", "Also export the combined dataset to this SQLite database")
	return cmd
}

func combine(cmd *cobra.Command, cfg *workspace.Config, log *slog.Logger, sqlitePath string) error {
	replicates := cfg.Replicates
	if replicates < 1 {
		replicates = 1
	}
	var sources []results.Source
	for _, sc := range scenario.All() {
		for rep := 0; rep < replicates; rep++ {
			sources = append(sources, results.Source{
				Scenario:  sc.Name,
				Replicate: strconv.Itoa(rep),
				Path:      runner.OutputPath(cfg.ResultsDir, sc.Name, rep),
			})
		}
	}
	dataset, err := results.Combine(sources, log)
	if err != nil {
		return err
	}
	if len(dataset.Rows) == 0 {
		log.Warn("nothing to combine", "dir", cfg.ResultsDir)
		return nil
	}

	outPath := filepath.Join(cfg.ResultsDir, combinedName)
	if err := dataset.WriteFile(outPath); err != nil {
		return err
	}
	log.Info("combined results written",
		"rows", len(dataset.Rows),
		"scenarios", dataset.Scenarios,
		"path", outPath)

	if sqlitePath != "" {
		if err := results.ExportSQLite(cmd.Context(), sqlitePath, dataset); err != nil {
			return err
		}
		log.Info("combined results exported", "db", sqlitePath)
	}
	return nil
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Generate parameter override fragments from a sweep definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("csv")
			outRoot, _ := cmd.Flags().GetString("out")
			clean, _ := cmd.Flags().GetBool("clean")

			if clean {
				if err := sweep.Clean(csvPath, outRoot); err != nil {
					return err
				}
				fmt.Println("removed generated sweep configs")
				return nil
			}

			written, err := sweep.Generate(csvPath, outRoot)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Println(path)
			}
			fmt.Printf("generated %d config(s)\n", len(written))
			return nil
		},
	}
	cmd.Flags().String("csv", "configs/sweep/sweep_definitions.csv", "Sweep definition CSV")
	cmd.Flags().String("out", "configs/sweep", "Output root for generated fragments")
	cmd.Flags().Bool("clean", false, "Remove previously generated fragments")
	return cmd
}
