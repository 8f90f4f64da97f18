// hfmangle - honggfuzz-style input mangler
// Generates mutated variants of seed files or serves mutations over HTTP.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Laplace1814/honggfuzz/internal/config"
	"github.com/Laplace1814/honggfuzz/internal/dictionary"
	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

var version = "0.1.0-dev"

// shared flags
var (
	configFile  string
	dictFile    string
	flipRate    float64
	maxFileSize int
	logLevel    string
	logFormat   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hfmangle",
		Short: "hfmangle - honggfuzz-style input mangler",
		Long: `hfmangle applies honggfuzz's byte-level mutation operators to seed inputs.

Commands:
  generate   write mutated variants of a seed corpus to disk
  serve      mutate request bodies over HTTP and WebSocket`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Path to config file (YAML)")
	pf.StringVarP(&dictFile, "dict", "d", "", "Dictionary file (AFL format or .json)")
	pf.Float64VarP(&flipRate, "flip-rate", "f", 0, "Fraction of input bytes mutated per pass")
	pf.IntVarP(&maxFileSize, "max-size", "m", 0, "Maximum variant size in bytes")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newGenerateCmd(), newServeCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hfmangle version %s\n", version)
		},
	}
}

// loadConfig reads the config file, if any, and applies the shared flags
// that were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dict") {
		cfg.Input.Dictionary = dictFile
	}
	if flags.Changed("flip-rate") {
		cfg.Mutation.FlipRate = flipRate
	}
	if flags.Changed("max-size") {
		cfg.Mutation.MaxFileSize = maxFileSize
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

// setupLogger installs the configured slog logger as default
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// loadDictionary returns an empty dictionary when no path is configured
func loadDictionary(path string, logger *slog.Logger) (mutator.Dictionary, error) {
	if path == "" {
		return mutator.Words{}, nil
	}
	words, err := dictionary.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Dictionary loaded", slog.String("path", path), slog.Int("entries", words.Len()))
	return words, nil
}
