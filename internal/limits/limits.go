// Package limits evaluates per-run and per-rule quotas against a
// candidate sample size, grounded on Main::SampleLimitStatus in
// GetThis_Run.cpp. The evaluation order — ignore, global count, local
// count, global per-sample, global total, local per-sample, local total —
// is part of the contract: it is preserved exactly.
package limits

import "www.velocidex.com/golang/getthis/internal/model"

// Status is the outcome of evaluating a candidate sample against the
// global and local quotas.
type Status int

const (
	SampleWithinLimits Status = iota
	NoLimits
	GlobalSampleCountReached
	GlobalMaxBytesPerSample
	GlobalMaxBytesTotal
	LocalSampleCountReached
	LocalMaxBytesPerSample
	LocalMaxBytesTotal
	FailedToComputeLimits
)

func (s Status) String() string {
	switch s {
	case NoLimits:
		return "NoLimits"
	case SampleWithinLimits:
		return "SampleWithinLimits"
	case GlobalSampleCountReached:
		return "GlobalSampleCountReached"
	case GlobalMaxBytesPerSample:
		return "GlobalMaxBytesPerSample"
	case GlobalMaxBytesTotal:
		return "GlobalMaxBytesTotal"
	case LocalSampleCountReached:
		return "LocalSampleCountReached"
	case LocalMaxBytesPerSample:
		return "LocalMaxBytesPerSample"
	case LocalMaxBytesTotal:
		return "LocalMaxBytesTotal"
	case FailedToComputeLimits:
		return "FailedToComputeLimits"
	default:
		return "Unknown"
	}
}

// WithinLimits reports whether status permits collecting the sample's
// bytes (NoLimits or SampleWithinLimits).
func (s Status) WithinLimits() bool {
	return s == NoLimits || s == SampleWithinLimits
}

// Evaluate implements Main::SampleLimitStatus's evaluation order exactly.
func Evaluate(global, local *model.Limits, dataSize uint64) Status {
	if global.IgnoreLimits {
		return NoLimits
	}

	if global.MaxSampleCount != model.Unlimited &&
		global.AccumulatedSampleCount >= global.MaxSampleCount {
		return GlobalSampleCountReached
	}

	if local.MaxSampleCount != model.Unlimited &&
		local.AccumulatedSampleCount >= local.MaxSampleCount {
		return LocalSampleCountReached
	}

	if global.MaxBytesPerSample != model.Unlimited &&
		dataSize > global.MaxBytesPerSample {
		return GlobalMaxBytesPerSample
	}

	if global.MaxBytesTotal != model.Unlimited &&
		dataSize+global.AccumulatedBytesTotal > global.MaxBytesTotal {
		return GlobalMaxBytesTotal
	}

	if local.MaxBytesPerSample != model.Unlimited &&
		dataSize > local.MaxBytesPerSample {
		return LocalMaxBytesPerSample
	}

	if local.MaxBytesTotal != model.Unlimited &&
		dataSize+local.AccumulatedBytesTotal > local.MaxBytesTotal {
		return LocalMaxBytesTotal
	}

	return SampleWithinLimits
}

// Accumulate records a within-limits sample against both the global and
// local accumulators. Callers must only invoke this for statuses where
// WithinLimits() is true and the match was not a registry duplicate.
func Accumulate(global, local *model.Limits, dataSize uint64) {
	global.AccumulatedBytesTotal += dataSize
	global.AccumulatedSampleCount++
	local.AccumulatedBytesTotal += dataSize
	local.AccumulatedSampleCount++
}

// MarkSticky sets the sticky "-reached" flag on the Limits record that
// triggered status. Once true, a sticky flag is never cleared within a
// run.
func MarkSticky(global, local *model.Limits, status Status) {
	switch status {
	case GlobalSampleCountReached:
		global.SampleCountReached = true
	case GlobalMaxBytesPerSample:
		global.PerSampleBytesReached = true
	case GlobalMaxBytesTotal:
		global.TotalBytesReached = true
	case LocalSampleCountReached:
		local.SampleCountReached = true
	case LocalMaxBytesPerSample:
		local.PerSampleBytesReached = true
	case LocalMaxBytesTotal:
		local.TotalBytesReached = true
	}
}
