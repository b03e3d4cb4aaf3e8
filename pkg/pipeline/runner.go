package pipeline

import (
	"cmp"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jiapu/pkg/cache"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
	"github.com/matzehuels/jiapu/pkg/observability"
	"github.com/matzehuels/jiapu/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its cache, source and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source Source
	Logger *log.Logger

	// FamilyTTL bounds how long a fetched document is served from the
	// cache. Zero means cache.TTLFamily.
	FamilyTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil logger means log.Default(). src may be
// nil when only caller-supplied documents are laid out.
func NewRunner(c cache.Cache, keyer cache.Keyer, src Source, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Source: src,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result := &Result{Format: opts.Format}

	// Stage 1: Fetch
	if opts.Data != nil {
		result.Data = *opts.Data
	} else {
		start := time.Now()
		d, hit, err := r.FetchWithCacheInfo(ctx, opts.FamilyID, opts.Refresh)
		if err != nil {
			return nil, err
		}
		result.Data = d
		result.Stats.FetchTime = time.Since(start)
		result.CacheInfo.FetchHit = hit
		r.Logger.Info("fetched family",
			"family", opts.FamilyID,
			"members", d.MemberCount(),
			"cached", hit,
			"duration", result.Stats.FetchTime)
	}

	// Stage 2: Layout
	start := time.Now()
	l, hash, hit, err := r.layout(ctx, result.Data)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.DocHash = hash
	result.Stats.Stats = l.Stats()
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"generations", result.Stats.Generations,
		"groups", result.Stats.Groups,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	out, hit, err := r.RenderWithCacheInfo(ctx, l, opts.Format)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(out),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo loads a family document, from the cache unless refresh
// is set, and reports whether it was a cache hit. A fetched document is
// always written back to the cache.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, familyID string, refresh bool) (family.FamilyData, bool, error) {
	if err := errors.ValidateID("family", familyID); err != nil {
		return family.FamilyData{}, false, err
	}
	key := r.Keyer.FamilyKey(familyID)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var d family.FamilyData
			if err := json.Unmarshal(data, &d); err == nil {
				observability.Cache().OnCacheHit(ctx, "family")
				return d, true, nil
			}
			r.Logger.Debug("discarding unreadable cached family", "family", familyID)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "family")
	}

	if r.Source == nil {
		return family.FamilyData{}, false, errors.New(errors.ErrCodeUnsupported, "no family source configured")
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, familyID)
	start := time.Now()
	d, err := r.Source.GetFamily(ctx, familyID)
	if err != nil {
		hooks.OnFetchComplete(ctx, familyID, 0, time.Since(start), err)
		return family.FamilyData{}, false, err
	}
	hooks.OnFetchComplete(ctx, familyID, d.MemberCount(), time.Since(start), nil)

	if data, err := json.Marshal(d); err == nil {
		r.store(ctx, "family", key, data, cmp.Or(r.FamilyTTL, cache.TTLFamily))
	}
	return *d, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Fetch(ctx context.Context, familyID string, refresh bool) (family.FamilyData, error) {
	d, _, err := r.FetchWithCacheInfo(ctx, familyID, refresh)
	return d, err
}

// LayoutWithCacheInfo lays out d, reusing a cached layout of an identical
// document, and reports whether it was a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d family.FamilyData) (layout.Layout, bool, error) {
	l, _, hit, err := r.layout(ctx, d)
	return l, hit, err
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, d family.FamilyData) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, d)
	return l, err
}

func (r *Runner) layout(ctx context.Context, d family.FamilyData) (layout.Layout, string, bool, error) {
	doc, err := family.Marshal(d)
	if err != nil {
		return layout.Layout{}, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize family for cache key")
	}
	hash := cache.Hash(doc)
	key := r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var l layout.Layout
		if err := json.Unmarshal(data, &l); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return l, hash, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, d.APIID, d.MemberCount())
	start := time.Now()
	l := layout.Build(d)
	hooks.OnLayoutComplete(ctx, d.APIID, len(l.Generations), time.Since(start), nil)

	if data, err := json.Marshal(l); err == nil {
		r.store(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, hash, false, nil
}

// RenderWithCacheInfo renders l in format f, reusing a cached rendering of
// an identical layout, and reports whether it was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, f render.Format) ([]byte, bool, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	key := r.Keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{Format: string(f)})

	if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return out, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(f))
	start := time.Now()
	out, err := render.Render(ctx, l, f)
	hooks.OnRenderComplete(ctx, string(f), len(out), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "render", key, out, cache.TTLLayout)
	return out, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, f render.Format) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, l, f)
	return out, err
}

// Invalidate drops the cached document of a family, typically after it was
// edited.
func (r *Runner) Invalidate(ctx context.Context, familyID string) error {
	return r.Cache.Delete(ctx, r.Keyer.FamilyKey(familyID))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes to the cache. Cache failures never fail the pipeline.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
