// Package pipeline provides the fetch → layout → render pipeline shared by
// the CLI and the layout server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: load a family document from the API (or take one supplied by
//     the caller)
//  2. Layout: sort each generation and group couples
//  3. Render: produce text, JSON, DOT, SVG, PDF or PNG
//
// Each stage can be run independently or as part of the complete pipeline,
// and each consults the cache first.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, apiClient, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    FamilyID: "f1",
//	    Format:   render.FormatSVG,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
	"github.com/matzehuels/jiapu/pkg/render"
)

// Source loads family documents. *api.Client satisfies it.
type Source interface {
	GetFamily(ctx context.Context, id string) (*family.FamilyData, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Exactly one of FamilyID and Data must
// be set.
type Options struct {
	// FamilyID is fetched through the runner's Source.
	FamilyID string `json:"familyId,omitempty"`

	// Data is laid out directly, skipping the fetch stage.
	Data *family.FamilyData `json:"data,omitempty"`

	// Format of Result.Output; text when empty.
	Format render.Format `json:"format,omitempty"`

	// Refresh bypasses the cached family document.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the options and fills in defaults.
func (o *Options) Validate() error {
	switch {
	case o.FamilyID == "" && o.Data == nil:
		return errors.New(errors.ErrCodeInvalidInput, "a family id or a family document is required")
	case o.FamilyID != "" && o.Data != nil:
		return errors.New(errors.ErrCodeInvalidInput, "family id and family document are mutually exclusive")
	}
	if o.FamilyID != "" {
		if err := errors.ValidateID("family", o.FamilyID); err != nil {
			return err
		}
	}
	f, err := render.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the family document that was laid out.
	Data family.FamilyData

	// DocHash is the content hash of Data.
	DocHash string

	// Layout is the computed layout.
	Layout layout.Layout

	// Output is the rendering in the requested format.
	Output []byte

	// Format is the format of Output.
	Format render.Format

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	layout.Stats
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool
	LayoutHit bool
	RenderHit bool
}
