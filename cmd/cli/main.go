package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lcfit/adapters/dataio"
	"lcfit/adapters/export"
	"lcfit/adapters/periodogram"
	lcplot "lcfit/adapters/plot"
	"lcfit/app"
	"lcfit/domain/lightcurve"
	"lcfit/internal/testkit"
	"lcfit/ports"
)

func main() {
	// Optional .env with LCFIT_* defaults; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "lcfit",
		Short: "Fit periodic light curves to variable-star photometry",
	}

	rootCmd.AddCommand(
		newFitCmd(),
		newBatchCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type fitFlags struct {
	minPeriod  float64
	maxPeriod  float64
	coarse     float64
	fine       float64
	sigma      float64
	folds      int
	workers    int
	estimator  string
	plotOutput string
}

func (f *fitFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.minPeriod, "min-period", envFloat("LCFIT_MIN_PERIOD", 0.2), "lower period bound")
	cmd.Flags().Float64Var(&f.maxPeriod, "max-period", envFloat("LCFIT_MAX_PERIOD", 32.0), "upper period bound")
	cmd.Flags().Float64Var(&f.coarse, "coarse-precision", 1e-5, "coarse period sweep step")
	cmd.Flags().Float64Var(&f.fine, "fine-precision", 1e-9, "fine period sweep step")
	cmd.Flags().Float64Var(&f.sigma, "sigma", 20, "outlier clipping threshold (<=0 disables)")
	cmd.Flags().IntVar(&f.folds, "cv", 3, "cross-validation folds")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "worker goroutines for sweeps and scoring")
	cmd.Flags().StringVar(&f.estimator, "periodogram", "ls", "period estimator: ls or ce")
	cmd.Flags().StringVar(&f.plotOutput, "plot", "", "write a PNG plot to this path")
}

func (f *fitFlags) service() (*app.LightCurveService, error) {
	cfg := app.DefaultFitConfig()
	cfg.Search.MinPeriod = f.minPeriod
	cfg.Search.MaxPeriod = f.maxPeriod
	cfg.Search.CoarsePrecision = f.coarse
	cfg.Search.FinePrecision = f.fine
	cfg.Sigma = f.sigma
	cfg.Folds = f.folds
	cfg.ScoringWorkers = f.workers

	switch f.estimator {
	case "ls":
		cfg.Periodogram = periodogram.LombScargle
	case "ce":
		cfg.Periodogram = periodogram.ConditionalEntropy
		cfg.Search.Workers = f.workers
	default:
		return nil, fmt.Errorf("unknown periodogram %q", f.estimator)
	}
	return app.NewLightCurveService(cfg), nil
}

func newFitCmd() *cobra.Command {
	flags := &fitFlags{}
	var skipRows int

	cmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "Fit one photometry file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			reader := dataio.NewFileReader()
			reader.SkipRows = skipRows

			path := args[0]
			result, err := svc.GetLightCurveFromFile(cmd.Context(), reader, path, path)
			if err != nil {
				return err
			}
			if err := printResult(result); err != nil {
				return err
			}
			if flags.plotOutput != "" {
				data, err := reader.ReadFile(path)
				if err != nil {
					return err
				}
				return lcplot.LightCurvePlot(flags.plotOutput, data, result)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&skipRows, "skiprows", 0, "leading lines to skip")
	return cmd
}

func newBatchCmd() *cobra.Command {
	flags := &fitFlags{}
	var pattern, output string
	var fitWorkers int

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Fit every photometry file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			batch := app.NewBatchService(svc, dataio.NewFileReader(), fitWorkers)
			result, err := batch.Run(cmd.Context(), args[0], pattern)
			if err != nil {
				return err
			}

			var writer ports.ResultWriter
			if strings.HasSuffix(output, ".xlsx") {
				writer = export.NewWorkbookWriter()
			} else {
				writer = export.NewTSVWriter()
			}
			if err := writer.Write(output, result.RunID, result.Records); err != nil {
				return err
			}
			fmt.Printf("run %s: %d files, %d fitted, summary written to %s\n",
				result.RunID, len(result.Records), len(result.Fitted()), output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&pattern, "pattern", "*", "file name pattern")
	cmd.Flags().StringVar(&output, "out", "results.tsv", "summary output path (.tsv or .xlsx)")
	cmd.Flags().IntVar(&fitWorkers, "fit-workers", 1, "concurrent per-star fits")
	return cmd
}

func newDemoCmd() *cobra.Command {
	flags := &fitFlags{}
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fit a synthetic two-harmonic light curve end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}

			gen := testkit.DefaultGeneratorConfig()
			gen.Seed = seed
			data, _ := testkit.NewGenerator(gen).Generate()

			result, err := svc.GetLightCurve(cmd.Context(), app.FitRequest{Name: "demo", Data: data})
			if err != nil {
				return err
			}
			if err := printResult(result); err != nil {
				return err
			}
			if flags.plotOutput != "" {
				return lcplot.LightCurvePlot(flags.plotOutput, data, result)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&seed, "seed", 42, "synthetic data seed")
	return cmd
}

func printResult(r *lightcurve.FitResult) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
