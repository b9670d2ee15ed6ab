// Package registry implements the SampleRegistry: a deduplicated set of
// Samples keyed by (volume-serial, frn, attribute-instance-id), plus the
// flat used-names set backing collision checking, grounded on the
// mutex-guarded, stable-key-keyed cache shape of uploads/deduplication.go.
// Unlike the teacher's dedup cache (built for concurrent VQL callers),
// GetThis's registry is single-owner per spec.md §5, so no locking is
// needed here — only insertion-ordered iteration, which a Go map cannot
// give for free.
package registry

import "www.velocidex.com/golang/getthis/internal/model"

// Registry is the SampleRegistry of spec.md §4.4.
type Registry struct {
	samples   map[model.SampleKey]*model.Sample
	order     []model.SampleKey
	usedNames map[string]struct{}
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		samples:   make(map[model.SampleKey]*model.Sample),
		usedNames: make(map[string]struct{}),
	}
}

// Contains reports whether key is already present.
func (r *Registry) Contains(key model.SampleKey) bool {
	_, ok := r.samples[key]
	return ok
}

// Get returns the sample for key, if present.
func (r *Registry) Get(key model.SampleKey) (*model.Sample, bool) {
	s, ok := r.samples[key]
	return s, ok
}

// Insert adds sample, keyed by sample.Key. Insert must only be called
// after Contains has been checked by the caller (MatchIngestor owns the
// duplicate-detection decision); Insert itself does not guard against
// overwriting an existing key.
func (r *Registry) Insert(sample *model.Sample) {
	if _, exists := r.samples[sample.Key]; !exists {
		r.order = append(r.order, sample.Key)
	}
	r.samples[sample.Key] = sample
}

// NameUsed reports whether name has already been reserved.
func (r *Registry) NameUsed(name string) bool {
	_, ok := r.usedNames[name]
	return ok
}

// ReserveName records name as used. Callers must check NameUsed first;
// ReserveName itself does not prevent double reservation.
func (r *Registry) ReserveName(name string) {
	r.usedNames[name] = struct{}{}
}

// Len returns the number of samples in the registry.
func (r *Registry) Len() int { return len(r.order) }

// Each iterates samples in registry (insertion) order, matching the
// ordering contract of spec.md §5: "Samples are written to the sink in
// registry iteration order."
func (r *Registry) Each(fn func(*model.Sample)) {
	for _, key := range r.order {
		fn(r.samples[key])
	}
}
