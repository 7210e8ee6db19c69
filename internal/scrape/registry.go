package scrape

import (
	"context"
	"fmt"

	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape/ashby"
	"jobradar-engine/internal/scrape/generic"
	"jobradar-engine/internal/scrape/greenhouse"
	"jobradar-engine/internal/scrape/lever"
	"jobradar-engine/internal/scrape/polymer"
	"jobradar-engine/internal/scrape/util"
	"jobradar-engine/internal/scrape/workable"
)

// Adapter is the contract every platform integration satisfies: given a
// company, return the currently open postings in canonical form. A non-nil
// error means the fetch failed and the stored jobs must not be touched.
type Adapter interface {
	Platform() string
	FetchJobs(ctx context.Context, co domain.Company) ([]domain.NormalizedJob, error)
}

// Registry maps platform keys to adapters. Lookup is read-only after
// construction; Register exists for swapping in fakes under test.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(limiter *util.HostLimiter, ua string) *Registry {
	r := &Registry{adapters: map[string]Adapter{}}
	r.Register(greenhouse.New(limiter, ua))
	r.Register(lever.New(limiter, ua))
	r.Register(ashby.New(limiter, ua))
	r.Register(workable.New(limiter, ua))
	r.Register(polymer.New(limiter, ua))
	r.Register(generic.New(limiter, ua))
	return r
}

func (r *Registry) Register(a Adapter) {
	r.adapters[a.Platform()] = a
}

// Resolve returns the adapter for a platform key. Companies with no
// recognized vendor are stored with key "generic", so an unknown key here
// means bad data, not a missing fallback.
func (r *Registry) Resolve(key string) (Adapter, error) {
	a, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("unsupported platform %q", key)
	}
	return a, nil
}

// Platforms lists the registered platform keys.
func (r *Registry) Platforms() []string {
	keys := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		keys = append(keys, k)
	}
	return keys
}
