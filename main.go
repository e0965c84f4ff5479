package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shoppingtrends/src/analyzer"
	"shoppingtrends/src/config"
	"shoppingtrends/src/datasource/file"
	"shoppingtrends/src/report"
	"shoppingtrends/src/storage"
	"shoppingtrends/src/visual"
)

var (
	flagConfig string
	flagData   string
	flagOut    string
	flagXLSX   string
	flagSheet  string
	flagEvery  time.Duration
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	root := &cobra.Command{
		Use:          "trends",
		Short:        "Descriptive analysis of a retail transactions dataset",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze()
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "config.json", "path to JSON config file")
	root.PersistentFlags().StringVar(&flagData, "data", "", "dataset path (.csv or .xlsx), overrides config")
	root.PersistentFlags().StringVar(&flagSheet, "sheet", "", "worksheet name for .xlsx input")
	root.PersistentFlags().StringVar(&flagOut, "out", "", "composite chart output path, overrides config")
	root.PersistentFlags().StringVar(&flagXLSX, "xlsx", "", "insight workbook output path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Load the dataset, print all insights and render the chart panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze()
		},
	}
	analyzeCmd.Flags().DurationVar(&flagEvery, "every", 0, "re-run the analysis on this interval")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever the dataset file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}

	root.AddCommand(analyzeCmd, watchCmd)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagData != "" {
		cfg.Dataset = flagData
	}
	if flagSheet != "" {
		cfg.SheetName = flagSheet
	}
	if flagOut != "" {
		cfg.Image = flagOut
	}
	if flagXLSX != "" {
		cfg.XLSXReport = flagXLSX
	}
	if flagEvery > 0 {
		cfg.Every = config.Duration(flagEvery)
	}
	return cfg, nil
}

func runAnalyze() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if cfg.Every <= 0 {
		return run(cfg)
	}

	// Scheduled mode: run once now, then on the configured interval.
	c := cron.New()
	spec := fmt.Sprintf("@every %s", time.Duration(cfg.Every))
	if err := c.AddFunc(spec, func() {
		if err := run(cfg); err != nil {
			log.Error().Err(err).Msg("scheduled run failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	if err := run(cfg); err != nil {
		return err
	}

	c.Start()
	defer c.Stop()
	log.Info().Str("interval", time.Duration(cfg.Every).String()).Msg("scheduled runs started, Ctrl+C to exit")
	waitForSignal()
	return nil
}

func runWatch() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if err := run(cfg); err != nil {
		return err
	}

	monitor, err := file.NewMonitor(cfg.Dataset)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Dataset, err)
	}

	go func() {
		waitForSignal()
		monitor.Close()
	}()

	log.Info().Str("dataset", cfg.Dataset).Msg("watching for changes, Ctrl+C to exit")
	return monitor.Watch(func(path string) {
		log.Info().Str("dataset", path).Msg("dataset changed")
		if err := run(cfg); err != nil {
			log.Error().Err(err).Msg("re-run failed")
		}
	})
}

// run executes the full pipeline once: load, analyze, report, render, export.
func run(cfg *config.Config) error {
	start := time.Now()

	df, err := file.Read(cfg.Dataset, cfg.SheetName, analyzer.NumericColumns())
	if err != nil {
		return err
	}
	log.Info().Str("dataset", cfg.Dataset).Int("rows", df.Nrow()).Msg("dataset loaded")

	insights, err := analyzer.Analyze(df)
	if err != nil {
		return err
	}

	report.Write(os.Stdout, insights)

	if err := visual.Render(cfg.Image, insights); err != nil {
		return err
	}
	log.Info().Str("image", cfg.Image).Msg("charts written")

	if cfg.XLSXReport != "" {
		if err := storage.ExportXLSX(cfg.XLSXReport, insights); err != nil {
			return err
		}
		log.Info().Str("workbook", cfg.XLSXReport).Msg("insights exported")
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("analysis complete")
	return nil
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
