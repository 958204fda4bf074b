package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/job"
)

var (
	logonPath  string
	httpPath   string
	devicePath string
	outputPath string
	zThreshold float64
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "riskwatch-pipeline",
	Short: "RiskWatch scoring pipeline",
	Long: `riskwatch-pipeline aggregates raw activity logs (logon, http, device)
into daily per-user feature vectors, fits an isolation forest and writes
the scored risk table consumed by the RiskWatch dashboard.`,
	Version: "0.1.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Flags override the config file when set.
		if cmd.Flags().Changed("logon") {
			cfg.Pipeline.LogonPath = logonPath
		}
		if cmd.Flags().Changed("http") {
			cfg.Pipeline.HTTPPath = httpPath
		}
		if cmd.Flags().Changed("device") {
			cfg.Pipeline.DevicePath = devicePath
		}
		if cmd.Flags().Changed("out") {
			cfg.Pipeline.OutputPath = outputPath
		}
		if cmd.Flags().Changed("spike-threshold") {
			cfg.Pipeline.Spikes.ZThreshold = zThreshold
		}
		if cmd.Flags().Changed("seed") {
			cfg.Pipeline.Model.Seed = seed
		}

		log := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
		log = log.With(logging.Component("pipeline"))
		logging.SetDefault(log)

		return job.Run(cfg.Pipeline, log)
	},
}

func init() {
	rootCmd.Flags().StringVar(&logonPath, "logon", "logon.csv", "path to the logon activity log")
	rootCmd.Flags().StringVar(&httpPath, "http", "http.csv", "path to the headerless http activity log")
	rootCmd.Flags().StringVar(&devicePath, "device", "device.csv", "path to the device activity log")
	rootCmd.Flags().StringVar(&outputPath, "out", "user_risk_analysis.csv", "path of the scored output file")
	rootCmd.Flags().Float64Var(&zThreshold, "spike-threshold", 2.0, "z-score cutoff for boolean spike flags")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the isolation forest")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
