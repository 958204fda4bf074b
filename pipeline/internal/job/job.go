// Package job orchestrates a single batch scoring run: read the raw
// logs, build and enrich the daily feature table, fit and score the
// anomaly model, print diagnostics and write the scored output file.
package job

import (
	"fmt"
	"os"
	"time"

	"github.com/riskwatch-systems/riskwatch-stack/common/config"
	"github.com/riskwatch-systems/riskwatch-stack/common/logging"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/export"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/features"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/ingest"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/report"
	"github.com/riskwatch-systems/riskwatch-stack/pipeline/internal/scoring"
)

// Run executes the pipeline end to end. Any failure aborts the run; the
// scored file is only written after scoring succeeds.
func Run(cfg config.PipelineConfig, log *logging.Logger) error {
	start := time.Now()

	logons, err := ingest.ReadLogons(cfg.LogonPath)
	if err != nil {
		return err
	}
	log.Info("loaded raw log", logging.Source("logon"), logging.Rows(len(logons)))

	https, err := ingest.ReadHTTP(cfg.HTTPPath)
	if err != nil {
		return err
	}
	log.Info("loaded raw log", logging.Source("http"), logging.Rows(len(https)))

	devices, err := ingest.ReadDevices(cfg.DevicePath)
	if err != nil {
		return err
	}
	log.Info("loaded raw log", logging.Source("device"), logging.Rows(len(devices)))

	aggs := features.Build(logons, https, devices)
	if len(aggs) == 0 {
		return fmt.Errorf("no user-day aggregates produced; are the input files empty?")
	}
	features.Enrich(aggs)
	log.Info("built daily feature table", logging.Rows(len(aggs)))

	detectorCfg := scoring.DetectorConfig{
		Trees:         cfg.Model.Trees,
		SampleSize:    cfg.Model.SampleSize,
		Contamination: cfg.Model.Contamination,
		Seed:          cfg.Model.Seed,
	}
	scored, thresholds, err := scoring.ScoreAggregates(aggs, detectorCfg, cfg.Spikes.ZThreshold)
	if err != nil {
		return err
	}
	log.Info("scored daily feature table",
		logging.Rows(len(scored)),
		"threshold_medium", thresholds.Medium,
		"threshold_high", thresholds.High,
	)

	report.Summary(os.Stdout, scored)

	if err := export.WriteCSV(cfg.OutputPath, scored); err != nil {
		return err
	}
	log.Info("wrote scored output",
		logging.Path(cfg.OutputPath),
		logging.Rows(len(scored)),
		logging.Duration(time.Since(start).Milliseconds()),
	)
	return nil
}
