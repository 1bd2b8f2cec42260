// Package pipeline orchestrates the full extraction: classify, detect,
// run every parser strategy, merge, classify value types, and pass the
// result through the quality gate, per spec.md §4 end-to-end. It also
// provides the batch worker pool described in spec.md §5.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mattsolo1/helpctl/pkg/cache"
	"github.com/mattsolo1/helpctl/pkg/classify"
	"github.com/mattsolo1/helpctl/pkg/detect"
	"github.com/mattsolo1/helpctl/pkg/merge"
	"github.com/mattsolo1/helpctl/pkg/model"
	"github.com/mattsolo1/helpctl/pkg/probe"
	"github.com/mattsolo1/helpctl/pkg/quality"
	"github.com/mattsolo1/helpctl/pkg/strategy"
	"github.com/mattsolo1/helpctl/pkg/valuetype"
)

// Options configures a single extraction or a batch run, mirroring the §6
// configuration knobs.
type Options struct {
	Thresholds   quality.Thresholds
	ProbeTimeout time.Duration
	InstalledOnly bool
	Jobs         int
	CacheEnabled bool
	SchemaVersion string
	ToolVersion   string
}

// DefaultOptions matches spec.md §6's stated defaults.
func DefaultOptions() Options {
	return Options{
		Thresholds:    quality.DefaultThresholds,
		ProbeTimeout:  probe.DefaultTimeout,
		Jobs:          0, // 0 means "hardware parallelism", resolved in Batch
		CacheEnabled:  true,
		SchemaVersion: "1",
	}
}

// Extract runs the full text pipeline (stages 1-6) over already-captured
// help text: no probing is involved.
func Extract(command, text string, opts Options) (model.CommandSchema, quality.ExtractionReport) {
	lines := classify.Classify(text)
	scores := detect.Detect(lines)

	var contributions []merge.Contribution
	for _, score := range scores {
		s := strategyFor(score.Format)
		if s == nil {
			continue
		}
		partial := s.Parse(lines)
		contributions = append(contributions, merge.Contribution{
			Format:   score.Format,
			Priority: strategy.PriorityOf(score.Format),
			Partial:  partial,
		})
	}

	selected := detect.FormatGeneric
	if len(scores) > 0 {
		selected = scores[0].Format
	}

	result := merge.Merge(contributions)

	schema := model.CommandSchema{
		SchemaVersion: opts.SchemaVersion,
		Command:       command,
		Description:   result.Description,
		GlobalFlags:   result.Flags,
		Subcommands:   result.Subcommands,
		Positional:    result.Positional,
		Source:        model.SourceHelpCommand,
		Version:       opts.ToolVersion,
	}
	valuetype.ClassifySchema(&schema)
	schema.Normalize()

	rep := quality.Evaluate(command, lines, scores, selected, result, &schema, opts.Thresholds)
	schema.Confidence = rep.Confidence

	return schema, rep
}

func strategyFor(f detect.Format) strategy.Strategy {
	for _, s := range strategy.Registry {
		if s.Format() == f {
			return s
		}
	}
	return nil
}

// ExtractLive probes a live executable for help text and then runs Extract
// over whichever attempt was accepted. If the command is not installed,
// or no probe attempt is accepted, the returned report carries a failure
// code and no schema is produced.
func ExtractLive(ctx context.Context, driver *probe.Driver, command string, opts Options) (model.CommandSchema, quality.ExtractionReport) {
	res, err := driver.Probe(ctx, command)
	if err != nil {
		rep := quality.ExtractionReport{Command: command}
		if _, ok := err.(*probe.NotInstalledError); ok {
			rep.FailureCode = quality.FailureNotInstalled
			rep.FailureDetail = err.Error()
		} else {
			rep.FailureCode = quality.FailureParseFailed
			rep.FailureDetail = err.Error()
		}
		return model.CommandSchema{}, rep
	}

	if !res.Accepted {
		rep := quality.ExtractionReport{Command: command, ProbeAttempts: len(res.Attempts), Warnings: res.Warnings}
		rep.FailureCode = failureCodeFromAttempts(res.Attempts)
		return model.CommandSchema{}, rep
	}

	schema, rep := Extract(command, res.Text, opts)
	rep.ProbeAttempts = len(res.Attempts)
	rep.Warnings = append(rep.Warnings, res.Warnings...)
	return schema, rep
}

func failureCodeFromAttempts(attempts []probe.ProbeAttemptReport) quality.FailureCode {
	for _, a := range attempts {
		if a.Error == "timed out" {
			return quality.FailureTimeout
		}
		if a.Error == "permission denied" {
			return quality.FailurePermissionBlocked
		}
	}
	return quality.FailureNotHelpOutput
}

// BatchItem is one unit of work for Batch: either pre-supplied text, or a
// live command to probe, never both.
type BatchItem struct {
	Command string
	Text    string // non-empty means "use this text", skip probing
}

// BatchResult pairs a BatchItem with its outcome.
type BatchResult struct {
	Command string
	Schema  model.CommandSchema
	Report  quality.ExtractionReport
}

// Batch runs every item through the pipeline with bounded concurrency
// (opts.Jobs, default hardware parallelism), returning results sorted by
// command name for byte-stable output (spec.md §5). Cancellation of ctx
// stops launching new work, and items never launched are left out of the
// results; an in-flight live probe is killed when its context is done.
func Batch(ctx context.Context, driver *probe.Driver, items []BatchItem, store *cache.Store, opts Options) ([]BatchResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultParallelism()
	}

	results := make([]BatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		i, item := i, item
		g.Go(func() error {
			results[i] = runOne(gctx, driver, item, store, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	launched := results[:0]
	for _, r := range results {
		if r.Command != "" {
			launched = append(launched, r)
		}
	}
	results = launched

	sort.SliceStable(results, func(i, j int) bool { return results[i].Command < results[j].Command })
	return results, nil
}

func runOne(ctx context.Context, driver *probe.Driver, item BatchItem, store *cache.Store, opts Options) BatchResult {
	if item.Text != "" {
		schema, rep := Extract(item.Command, item.Text, opts)
		return BatchResult{Command: item.Command, Schema: schema, Report: rep}
	}

	if opts.InstalledOnly || driver == nil {
		schema, rep := Extract(item.Command, "", opts)
		if rep.FailureCode == "" && len(schema.GlobalFlags) == 0 {
			rep.FailureCode = quality.FailureNotInstalled
			rep.FailureDetail = fmt.Sprintf("%q requires a live probe but installed_only/no driver is set", item.Command)
		}
		return BatchResult{Command: item.Command, Schema: schema, Report: rep}
	}

	if store != nil && opts.CacheEnabled {
		if hit, ok := cacheLookup(store, item.Command); ok {
			return hit
		}
	}

	schema, rep := ExtractLive(ctx, driver, item.Command, opts)
	result := BatchResult{Command: item.Command, Schema: schema, Report: rep}
	if store != nil && opts.CacheEnabled {
		cacheStore(store, item.Command, result)
	}
	return result
}

func defaultParallelism() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}
