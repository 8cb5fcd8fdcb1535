// Package geom provides the planar primitives used by the layout engine.
//
// Coordinates are viewport-relative with the origin at the center of the
// drawing area and y growing downward, matching the renderers.
//
// # Orientation
//
// [CCW] uses a strict comparison, so collinear triples (including triples
// with repeated points) report false. [SegmentsIntersect] inherits that
// tie-break: segments that only touch at a shared endpoint or lie on the
// same line are decided by whatever the strict predicate yields for the
// remaining points, and no special case is applied.
package geom
