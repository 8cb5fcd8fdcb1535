// Package layout places the zones of a connection graph in the plane.
//
// The engine is a randomized local search with fixed budgets. It has no
// notion of zones or expiry; it sees a [Topology] (names, adjacency lists
// and the edge list, all by index) and returns one position per node.
//
// # Algorithm
//
// [Engine.Layout] runs [Restarts] independent attempts and keeps the one
// with the highest [RateOverall]. Each attempt:
//
//  1. Resets every node to [Unplaced].
//  2. Picks a root: the first configured home zone present in the graph,
//     otherwise a uniformly random node. The root goes to the origin.
//  3. Walks the root's component depth-first. Every unplaced neighbor is
//     put on the circle of radius Distance around its parent, at the best
//     of [Directions] shuffled whole-degree angles.
//  4. While nodes remain unplaced, the first one in node order is dropped
//     at the best of [Samples] uniform points in the viewport and its
//     component is walked the same way.
//
// Both searches stop early once a candidate scores at least Distance,
// which is the best any position can score.
//
// # Rating
//
// [RatePosition] scores a point by its distance to the nearest other node,
// capped at Distance. Points inside the viewport margins score [Invalid],
// the smallest positive float, so they lose against every legal point but
// never go negative. [RateOverall] sums the per-node scores and subtracts
// [CrossingPenalty] for every pair of crossing edges.
//
// # Randomness
//
// All randomness comes from the *rand.Rand handed to [New]. Two engines
// built from [NewRand] with the same non-zero seed produce identical
// layouts for identical input.
package layout
