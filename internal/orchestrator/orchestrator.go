// Package orchestrator drives one run of the collection pipeline:
// initialize the sink, find every match across the configured
// locations (ingesting and evaluating limits as matches arrive), then —
// only once finding is complete — walk the registry in insertion order
// and write each sample to the sink, and finally close it down.
// Grounded on Main::Run in GetThis_Run.cpp, translated into a
// single-threaded Go call sequence with context.Context threaded through
// the blocking steps the way file_store/uploader.Upload does.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"www.velocidex.com/golang/getthis/internal/errkind"
	"www.velocidex.com/golang/getthis/internal/finder"
	"www.velocidex.com/golang/getthis/internal/ingest"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/sink"
	"www.velocidex.com/golang/getthis/internal/sysinfo"
)

// SpecResolver maps a matched term back to the SampleSpec (content
// transform + per-rule limits) that should govern it. The orchestrator
// doesn't own the catalog; it asks for this mapping once per match.
type SpecResolver func(term *model.RuleDescriptor) *model.SampleSpec

// Orchestrator wires a finder, an ingestor and a sink together for one
// run. Locations and Yara rules describe the scan; GlobalLimits is
// shared across every sample spec's own local limits.
type Orchestrator struct {
	Finder        finder.FileFinder
	Locations     []finder.Location
	YaraRules     []string
	Ingestor      *ingest.Ingestor
	Sink          sink.Sink
	GlobalLimits  *model.Limits
	ResolveSpec   SpecResolver
	Log           *logrus.Logger
	Flusher       sysinfo.RegistryFlusher
	FlushRegistry bool
}

// Run executes init -> find -> collect -> close, in that order. Any
// panic raised by a collaborator (the finder, most plausibly, since it
// is the one component this repo doesn't implement) is recovered and
// reported as a Fatal-kind error rather than crashing the process — the
// original tool has no notion of exceptions-as-control-flow (spec.md §9)
// and neither does this port.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errkind.New(errkind.Fatal, "Orchestrator.Run", fmt.Errorf("panic: %v", r))
		}
	}()

	if o.FlushRegistry && o.Flusher != nil {
		if ferr := o.Flusher.FlushKeys(nil); ferr != nil && o.Log != nil {
			o.Log.WithError(ferr).Warn("registry flush failed, continuing")
		}
	}
	if perr := sysinfo.PreloadTrust(); perr != nil && o.Log != nil {
		o.Log.WithError(perr).Warn("wintrust preload failed, continuing")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if o.Finder == nil {
		return errkind.New(errkind.InvalidArgument, "Orchestrator.Run",
			fmt.Errorf("no file finder configured"))
	}

	if err := o.Sink.Init(); err != nil {
		return errkind.New(errkind.ResourceInitFailure, "Orchestrator.Run", err)
	}

	if err := o.findMatchingSamples(ctx); err != nil {
		if o.Log != nil {
			o.Log.WithError(err).Error("file finder reported an error")
		}
	}

	o.collectSamples(ctx)

	if err := o.Sink.Finalize(); err != nil {
		return errkind.New(errkind.IoFailure, "Orchestrator.Run", err)
	}
	return nil
}

// findMatchingSamples drives the finder and ingests every match it
// reports. Nothing is written to the sink here — per spec.md §5's
// ordering guarantee, samples are written only after the registry is
// complete.
func (o *Orchestrator) findMatchingSamples(ctx context.Context) error {
	if len(o.YaraRules) > 0 {
		if err := o.Finder.InitializeYara(finder.YaraConfig{Rules: o.YaraRules}); err != nil {
			return errkind.New(errkind.ResourceInitFailure, "Orchestrator.findMatchingSamples", err)
		}
	}

	return o.Finder.Find(o.Locations, func(match *model.Match, stop *bool) {
		if ctx.Err() != nil {
			*stop = true
			return
		}
		if err := o.ingestMatch(match); err != nil && o.Log != nil {
			o.Log.WithError(err).Warn("failed to ingest match, continuing")
		}
	})
}

// ingestMatch resolves the spec governing match's term and hands the
// match to the ingestor, which evaluates and accumulates limits once per
// attribute against that attribute's own data-stream size.
func (o *Orchestrator) ingestMatch(match *model.Match) error {
	if len(match.MatchingAttributes) == 0 {
		if o.Log != nil {
			o.Log.Warn("match has no attributes, skipping")
		}
		return nil
	}

	spec := o.ResolveSpec(match.Term)
	if spec == nil {
		if o.Log != nil {
			o.Log.WithField("term", match.Term.Description).Error("no sample spec registered for term")
		}
		return nil
	}

	_, err := o.Ingestor.Ingest(o.GlobalLimits, spec, match)
	return err
}

// collectSamples walks the registry in insertion order and writes each
// sample to the sink, matching spec.md §4.8 step 5. A write failure on
// one sample is logged and the loop moves on to the next, matching
// WriteSamples's "if (FAILED(hr)) { log::Error(...); continue; }" — it
// never aborts the run or skips Finalize.
func (o *Orchestrator) collectSamples(ctx context.Context) {
	o.Ingestor.Registry.Each(func(sample *model.Sample) {
		if ctx.Err() != nil {
			return
		}
		if err := o.Sink.Write(sample); err != nil && o.Log != nil {
			o.Log.WithError(err).WithField("sample", sample.SampleName).
				Error("failed to write sample, continuing")
		}
	})
}
