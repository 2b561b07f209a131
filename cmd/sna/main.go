package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saadi-js/SNA/internal/advice"
	"github.com/saadi-js/SNA/internal/baseline"
	"github.com/saadi-js/SNA/internal/collect"
	"github.com/saadi-js/SNA/internal/config"
	"github.com/saadi-js/SNA/internal/report"
	"github.com/saadi-js/SNA/internal/rules"
	"github.com/saadi-js/SNA/internal/snapshot"
)

var (
	cfgPath string
	debug   bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sna",
	Short:         "System & network audit: health, SSH posture, log anomalies, baselines",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		level := zerolog.WarnLevel
		if debug {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

func newAdvisor() advice.Advisor {
	if !cfg.Advisor.Enabled || len(cfg.Advisor.Endpoints) == 0 {
		return advice.Disabled{}
	}
	var endpoints []advice.Endpoint
	for _, ep := range cfg.Advisor.Endpoints {
		endpoints = append(endpoints, advice.Endpoint{
			URL:    ep.URL,
			Model:  ep.Model,
			APIKey: ep.APIKey,
		})
	}
	return advice.NewLLMAdvisor(endpoints)
}

func currentSnapshot() snapshot.SystemSnapshot {
	return snapshot.Normalize(collect.New(log).Collect())
}

func runAudit(ctx context.Context, full bool) report.Audit {
	a := report.Run(ctx, currentSnapshot(), report.Options{
		Advisor:        newAdvisor(),
		AdvisorTimeout: cfg.Advisor.Timeout,
		Log:            log,
	})
	if full {
		procs := collect.CollectProcesses()
		a.Processes = &procs
	}
	return a
}

func openStore() (*baseline.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.BaselineDB), 0755); err != nil {
		return nil, fmt.Errorf("create baseline directory: %w", err)
	}
	store, err := baseline.Open(cfg.BaselineDB)
	if err != nil {
		return nil, fmt.Errorf("open baseline store %s: %w", cfg.BaselineDB, err)
	}
	return store, nil
}

var (
	auditFull bool
	auditJSON bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a full system audit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := runAudit(cmd.Context(), auditFull)
		if auditJSON {
			if err := report.WriteJSON(os.Stdout, a); err != nil {
				return err
			}
			path, err := report.SaveJSON(cfg.ReportsDir, a)
			if err != nil {
				log.Warn().Err(err).Msg("could not save report file")
			} else {
				fmt.Fprintf(os.Stderr, "Report saved: %s\n", path)
			}
			return nil
		}
		report.WriteText(os.Stdout, a)
		return nil
	},
}

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Run a security-focused audit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := runAudit(cmd.Context(), false)
		report.WriteCategory(os.Stdout, a, rules.CategorySecurity, "Security Audit")
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Run a log intelligence analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := runAudit(cmd.Context(), false)
		report.WriteCategory(os.Stdout, a, rules.CategoryLogs, "Log Intelligence Analysis")
		return nil
	},
}

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage baseline snapshots",
}

var baselineName string

var baselineSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current system state as a baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		b, err := store.Save(baselineName, currentSnapshot())
		if err != nil {
			return err
		}
		fmt.Printf("Baseline saved: %s\n", b.Name)
		return nil
	},
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare <name>",
	Short: "Compare the current system state against a baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		b, err := store.Get(args[0])
		if err != nil {
			if errors.Is(err, baseline.ErrNotFound) {
				printAvailable(store)
			}
			return err
		}

		report.WriteDrift(os.Stdout, baseline.Diff(currentSnapshot(), b))
		return nil
	},
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No baselines found.")
			return nil
		}
		fmt.Println("Available baselines:")
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

var baselineDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			if errors.Is(err, baseline.ErrNotFound) {
				printAvailable(store)
			}
			return err
		}
		fmt.Printf("Baseline deleted: %s\n", args[0])
		return nil
	},
}

func printAvailable(store *baseline.Store) {
	names, err := store.List()
	if err != nil || len(names) == 0 {
		fmt.Fprintln(os.Stderr, "No baselines are saved. Create one with 'sna baseline save'.")
		return
	}
	fmt.Fprintf(os.Stderr, "Available baselines: %s\n", strings.Join(names, ", "))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.sna/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	auditCmd.Flags().BoolVar(&auditFull, "full", false, "include a process snapshot")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output JSON and save a report file")

	baselineSaveCmd.Flags().StringVar(&baselineName, "name", "", "baseline name (default: timestamp-derived)")

	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineCompareCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineDeleteCmd)

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(securityCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(baselineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
