package layout

import "github.com/matzehuels/zonelink/pkg/geom"

// RatePosition scores p against the nodes in positions, skipping index
// ignore (pass -1 to compare against all of them).
//
// The result is Invalid inside the margins and otherwise the distance to
// the nearest node, capped at cfg.Distance.
func RatePosition(p geom.Point, positions []geom.Point, ignore int, vp Viewport, cfg Config) float64 {
	if p.X < -vp.Width/2+MarginX*cfg.Scale ||
		p.X >= vp.Width/2-MarginX*cfg.Scale ||
		p.Y < -vp.Height/2+MarginTop*cfg.Scale ||
		p.Y >= vp.Height/2-MarginBottom*cfg.Scale {
		return Invalid
	}

	closest := float64(maxSafeInteger)
	for i, q := range positions {
		if i == ignore {
			continue
		}
		closest = min(closest, geom.Distance(p, q))
	}
	return min(closest, cfg.Distance)
}

// RateOverall scores a complete placement: the sum of every node's
// [RatePosition] against the others, minus [CrossingPenalty] per pair of
// crossing edges. It also returns the number of crossings.
func RateOverall(positions []geom.Point, edges [][2]int, vp Viewport, cfg Config) (float64, int) {
	var rating float64
	for i, p := range positions {
		rating += RatePosition(p, positions, i, vp, cfg)
	}

	crossings := 0
	for i := range edges {
		a1, a2 := positions[edges[i][0]], positions[edges[i][1]]
		for j := i + 1; j < len(edges); j++ {
			if geom.SegmentsIntersect(a1, a2, positions[edges[j][0]], positions[edges[j][1]]) {
				rating -= CrossingPenalty
				crossings++
			}
		}
	}
	return rating, crossings
}
