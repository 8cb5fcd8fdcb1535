// Package pkg provides the core libraries for zonelink.
//
// # Overview
//
// Zonelink keeps a graph of temporary connections between named zones and
// lays it out on a plane so that connected zones sit a preferred distance
// apart with few crossing lines. The pkg directory is organized into:
//
//  1. [geom], [graph], [layout] - Geometry, the graph arena and the
//     randomized radial placement
//  2. [world] - The context object that owns graph, engine and viewport
//     and applies every mutation followed by a re-layout
//  3. [store], [zones], [config] - Persistence backends, the zone
//     catalog and the TOML configuration
//  4. [render/nodelink] - SVG drawing and Graphviz export
//  5. [errors], [observability], [httputil], [buildinfo] - Ambient
//     support
//
// # Architecture
//
//	zone catalog (JSON file or HTTP)     store (memory, file, redis, mongo)
//	            ↓                                    ↕
//	      [zones] package  ─────────→   [world] package ←── Watch snapshots
//	                                         ↓
//	                                 [layout] package
//	                                         ↓
//	                       [render/nodelink] package, internal/server
//
// # Quick Start
//
//	cat, _ := zones.LoadFile("zones.json")
//	w := world.New(cat, world.WithSeed(1))
//	_, _ = w.AddConnection(ctx, "Thetford", "Setent-Qintis", graph.Blue, 2, 0)
//	svg := nodelink.SVG(w.Snapshot(), nodelink.Options{})
package pkg
