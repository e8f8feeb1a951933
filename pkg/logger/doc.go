// Package logger provides a structured logging interface for the Behance scraper.
//
// It wraps the zerolog library and supports:
// - Log levels (Debug, Info, Warn, Error)
// - Structured logging with fields
// - Pretty console output with colors
// - One timestamped log file per process start
//
// There is no package-level logger. The command constructs one and hands it to
// every component that logs:
//
//	import "behancescraper/pkg/logger"
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//
//	log.Info("Behance scraper starting")
//	log.WithField("keyword", "jetour").Info("Run started")
//	log.WithError(err).Error("Failed to download image")
//
// Components derive child loggers carrying their own fields:
//
//	dlLog := log.WithField("component", "downloader")
//	dlLog.InfoWithFields("Batch complete", map[string]interface{}{
//	    "succeeded": 12,
//	    "failed":    1,
//	})
//
// With logging.directory set (default "logs"), records are also written as JSON
// to a file named like 20240309_140507_behance_scraper.log.
//
// Tests use NewNopLogger to discard output or NewTestLogger to assert on
// captured messages.
package logger
