// Package main is the entry point for the vitana-context CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/exafyltd/vitana-context/internal/budget"
	"github.com/exafyltd/vitana-context/internal/config"
	"github.com/exafyltd/vitana-context/internal/core"
	"github.com/exafyltd/vitana-context/internal/lexical"
	"github.com/exafyltd/vitana-context/internal/render"
	"github.com/exafyltd/vitana-context/internal/selection"
	"github.com/exafyltd/vitana-context/pkg/app"

	// Modules self-register via init.
	_ "github.com/exafyltd/vitana-context/internal/engine"
	_ "github.com/exafyltd/vitana-context/internal/gateway"
	_ "github.com/exafyltd/vitana-context/internal/schedule"
	_ "github.com/exafyltd/vitana-context/modules/debuglog/sqlite"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vitana-context",
		Short:         "Deterministic context selection and saturation control engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), startCmd(), configCmd(), selectCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled modules",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("vitana-context %s (commit: %s, built: %s)\n", version, commit, date)
			mods := core.GetModules()
			if len(mods) == 0 {
				fmt.Println("\nNo compiled modules.")
				return
			}
			fmt.Println("\nCompiled modules:")
			for _, mod := range mods {
				fmt.Printf("  %s\n", mod.ID)
			}
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the service with all configured modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			return app.Run(app.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
				DataDir:    dataDir,
			})
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().String("data-dir", "", "Override the persistent data directory")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			appCtx := core.NewAppContext(app.NewLogger(cfg.Log), app.DefaultDataDir())
			appCtx = appCtx.WithModuleConfigs(cfg.Modules)

			application := core.NewApp(appCtx)
			ids := config.Resolve(cfg)
			if err := application.LoadModules(ids); err != nil {
				return err
			}
			defer application.Stop()

			fmt.Printf("Configuration OK (%d modules)\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

// selectCmd runs one selection without a server: a JSON request on stdin
// (or a file argument) produces a JSON result on stdout. Useful for
// scripting and for replaying captured requests against budget overrides.
func selectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [request.json]",
		Short: "Run a single selection from a JSON request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("reading request: %w", err)
			}

			var req selection.Request
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parsing request: %w", err)
			}

			cfg := selection.DefaultConfig()
			if budgetPath, _ := cmd.Flags().GetString("budget"); budgetPath != "" {
				cfg, err = loadBudget(budgetPath, cfg)
				if err != nil {
					return err
				}
			}

			engine := selection.New(selection.Options{
				Configs:    selection.StaticConfig(cfg),
				Similarity: lexical.NewTokenSetSimilarity(0),
				Topics:     lexical.NewKeywordTopicExtractor(),
			})
			res := engine.Select(cmd.Context(), req)

			if doRender, _ := cmd.Flags().GetBool("render"); doRender {
				r := &render.Renderer{}
				fmt.Println(r.Render(res))
				return nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().String("budget", "", "Path to a JSON file with budget overrides")
	cmd.Flags().Bool("render", false, "Print the rendered prompt block instead of JSON")
	return cmd
}

// loadBudget applies JSON budget overrides from a file on top of base.
func loadBudget(path string, base selection.Config) (selection.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading budget overrides: %w", err)
	}
	var partial budget.Partial
	if err := json.Unmarshal(raw, &partial); err != nil {
		return base, fmt.Errorf("parsing budget overrides: %w", err)
	}
	cfg := partial.Apply(base)
	if err := budget.Validate(cfg); err != nil {
		return base, fmt.Errorf("invalid budget overrides: %w", err)
	}
	return cfg, nil
}
