// Package pkg provides the core libraries for jiapu, a genealogy client
// that lays family trees out generation by generation.
//
// # Overview
//
// A family document is a list of generations, oldest first, each holding
// its members. Laying a family out means sorting every generation so that
// siblings sit under their father in birth order, then folding each
// member's spouses into one display group next to them. The pkg directory
// is organized into these areas:
//
//  1. [family] - Document model: members, generations, the dual local/server
//     id scheme and the JSON wire format
//  2. [layout] - Member sorting and couple grouping
//  3. [render] - Text, JSON, DOT, SVG, PDF and PNG output
//  4. [pipeline] - Orchestration (fetch → layout → render) with caching
//  5. [api], [session] - Client for the remote family service
//  6. [cache], [storage] - Redis/file caches and MongoDB snapshots
//  7. [server] - HTTP layout service
//
// # Architecture
//
// The typical data flow through jiapu:
//
//	Family service (or family.json)
//	         ↓
//	    [api] package (fetch the document)
//	         ↓
//	    [layout] package (sort + group each generation)
//	         ↓
//	    [render] package
//	         ↓
//	    text/JSON/DOT/SVG/PDF/PNG output
//
// # Quick Start
//
// Lay out a document read from disk:
//
//	d, _ := family.ReadFile("wang.json")
//	l := layout.Build(d)
//	render.Text(os.Stdout, l, render.TextOptions{})
//
// Or let the pipeline fetch, cache and render:
//
//	runner := pipeline.NewRunner(c, nil, client, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{FamilyID: "f1", Format: render.FormatSVG})
//
// # Support Packages
//
// [config] loads the TOML configuration. [errors] defines the coded error
// type shared by every package. [httputil] retries and tags outgoing
// requests. [observability] carries hooks for logging pipeline, cache and
// HTTP events. [buildinfo] holds version information set at build time.
package pkg
