// Package graph holds the connection graph: zones as nodes, timed
// connections as edges.
//
// # Arena
//
// [Graph] owns every [Node] and [Edge]. Nodes are keyed by zone name and
// edges refer to their endpoints by key, never by pointer, so removing a
// node cannot leave a dangling reference behind. Both lists keep insertion
// order, which the layout engine relies on for its tie-breaks.
//
// The graph maintains two invariants on its own:
//
//   - every node has at least one incident edge; [Graph.RemoveEdge] drops
//     an endpoint as soon as its degree reaches zero
//   - at most one edge exists per unordered pair of zones; callers use
//     [Graph.Find] before [Graph.AddEdge]
//
// Expiry, persistence and re-layout are the caller's business (see
// pkg/world).
//
// # Snapshot Serialization
//
// [Snapshot] is the JSON view of a graph used by the HTTP API, the CLI and
// the renderers:
//
//	{
//	  "viewport": {"width": 1280, "height": 720},
//	  "nodes": [{"name": "Thetford", "x": 0, "y": 0, "radius": 20, ...}],
//	  "edges": [{"id": "...", "start": "Thetford", "end": "...", "category": "gold", ...}]
//	}
//
// Common operations:
//
//	snap := g.Snapshot()
//	graph.WriteSnapshotFile(snap, "world.json")
//	snap, _ = graph.ReadSnapshotFile("world.json")
//
// # Concurrency
//
// A Graph is not safe for concurrent use. pkg/world serializes access.
package graph
