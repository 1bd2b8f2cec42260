package cmd

import (
	"time"

	"github.com/mattsolo1/helpctl/pkg/pipeline"
	"github.com/mattsolo1/helpctl/pkg/quality"
	"github.com/mattsolo1/helpctl/pkg/report"
)

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// partitionAndSaveReport splits batch results into successes/failures and
// saves the resulting bundle to path, shared between the batch and watch
// commands.
func partitionAndSaveReport(results []pipeline.BatchResult, path string) error {
	var extractions []report.Extraction
	var failures []quality.ExtractionReport
	for _, r := range results {
		if r.Report.Success {
			extractions = append(extractions, report.Extraction{Schema: r.Schema, Report: r.Report})
		} else {
			failures = append(failures, r.Report)
		}
	}
	bundle := report.NewBundle(version, time.Now(), extractions, failures)
	return bundle.Save(path)
}
