// Package world owns the live connection graph and keeps it laid out.
//
// A [World] bundles the graph arena, the layout engine, the viewport, the
// zone catalog and the persistence store behind one mutex. Every
// structural change runs a full re-layout before the lock is released, so
// readers never observe positions from a half-applied mutation.
//
// # Scheduling
//
// [World.Run] is the only place that reacts to time and to remote changes:
// it applies store snapshots with [World.ReplaceAll] and sweeps expired
// connections on every tick.
//
//	w := world.New(catalog, world.WithStore(s), world.WithLogger(logger))
//	if err := w.Init(ctx); err != nil {
//	    return err
//	}
//	go w.Run(ctx, time.Second)
//
// # Invalid input
//
// Unknown zones, empty names and self-loops are ignored: the mutating call
// returns a nil edge and a nil error and logs at debug level. Store errors
// are returned unchanged, after the in-memory change and layout have been
// applied.
package world
