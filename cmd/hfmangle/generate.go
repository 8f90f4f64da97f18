package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Laplace1814/honggfuzz/internal/corpus"
	"github.com/Laplace1814/honggfuzz/internal/generator"
	"github.com/Laplace1814/honggfuzz/internal/report"
	"github.com/Laplace1814/honggfuzz/internal/ui"
)

type generateFlags struct {
	input   string
	output  string
	count   int
	workers int
	rps     int
	seed    uint64
	report  string
	tui     bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write mutated variants of a seed corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, &f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Seed corpus directory")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory for variants")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "Number of variants to generate")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Number of concurrent workers")
	cmd.Flags().IntVarP(&f.rps, "rps", "r", 0, "Variants per second limit (0 = unlimited)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "RNG seed for reproducible runs (0 = random)")
	cmd.Flags().StringVar(&f.report, "report", "", "Write a run summary (.json or .md)")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "Show a live progress view")

	return cmd
}

func runGenerate(cmd *cobra.Command, f *generateFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.SeedDir = f.input
	}
	if flags.Changed("output") {
		cfg.Output.Dir = f.output
	}
	if flags.Changed("count") {
		cfg.Output.Count = f.count
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = f.workers
	}
	if flags.Changed("rps") {
		cfg.Engine.RPS = f.rps
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = f.seed
	}
	if flags.Changed("report") {
		cfg.Output.Report = f.report
	}
	if flags.Changed("tui") {
		cfg.Output.TUI = f.tui
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input.SeedDir == "" || cfg.Output.Dir == "" {
		return errors.New("--input and --output are required")
	}

	logger := setupLogger(cfg)

	dict, err := loadDictionary(cfg.Input.Dictionary, logger)
	if err != nil {
		return err
	}

	seeds, err := corpus.LoadSeeds(cfg.Input.SeedDir, cfg.Mutation.MaxFileSize)
	if err != nil {
		return err
	}
	for _, s := range seeds {
		if s.Truncated {
			logger.Warn("Seed truncated to max file size", slog.String("seed", s.Name), slog.Int("max_file_size", cfg.Mutation.MaxFileSize))
		}
	}

	store, err := corpus.NewStore(cfg.Output.Dir)
	if err != nil {
		return err
	}

	gen, err := generator.New(generator.Options{
		Seeds:      seeds,
		Store:      store,
		Dictionary: dict,
		Mangle:     cfg.Mangle(),
		Count:      cfg.Output.Count,
		Workers:    cfg.Engine.Workers,
		RPS:        cfg.Engine.RPS,
		Seed:       cfg.Engine.Seed,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Output.TUI {
		err = runWithProgress(ctx, gen)
	} else {
		err = gen.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("Generation interrupted")
		err = nil
	}
	if err != nil {
		return err
	}

	summary := report.NewSummary("hfmangle run", cfg.Mangle())
	summary.InputDir = cfg.Input.SeedDir
	summary.OutputDir = store.Dir()
	summary.DictionarySize = dict.Len()
	summary.Workers = cfg.Engine.Workers
	summary.Seed = cfg.Engine.Seed
	summary.FromGenerator(gen)

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(summary))

	if cfg.Output.Report != "" {
		if err := report.WriteFile(summary, cfg.Output.Report); err != nil {
			return err
		}
		logger.Info("Report written", slog.String("path", cfg.Output.Report))
	}
	return nil
}

// runWithProgress runs the generator under a bubbletea progress view.
// Quitting the view cancels the campaign.
func runWithProgress(ctx context.Context, gen *generator.Generator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewProgressModel(gen.Stats)
	program := ui.NewProgram(model)

	done := make(chan error, 1)
	go func() {
		err := gen.Run(ctx)
		done <- err
		program.Send(ui.DoneMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("progress view failed: %w", err)
	}
	if model.Aborted() {
		cancel()
	}
	return <-done
}
