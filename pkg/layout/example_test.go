package layout_test

import (
	"fmt"

	"github.com/matzehuels/zonelink/pkg/geom"
	"github.com/matzehuels/zonelink/pkg/layout"
)

func ExampleRatePosition() {
	cfg := layout.DefaultConfig()
	vp := layout.Viewport{Width: 1000, Height: 1000}
	others := []geom.Point{geom.Pt(30, 40)}

	fmt.Println(layout.RatePosition(geom.Pt(0, 0), others, -1, vp, cfg))
	fmt.Println(layout.RatePosition(geom.Pt(490, 0), others, -1, vp, cfg) == layout.Invalid)
	// Output:
	// 50
	// true
}

func ExampleEngine_Layout() {
	topo := layout.Topology{
		Names:     []string{"Setent-Qintis", "Qiient-Al-Nusom"},
		Adjacency: [][]int{{1}, {0}},
		Edges:     [][2]int{{0, 1}},
	}
	engine := layout.New(layout.DefaultConfig(), layout.NewRand(1))
	res := engine.Layout(topo, layout.Viewport{Width: 1000, Height: 1000})

	fmt.Println("home:", res.Positions[0])
	fmt.Printf("edge length: %.0f\n", geom.Distance(res.Positions[0], res.Positions[1]))
	fmt.Println("crossings:", res.Crossings)
	// Output:
	// home: {0 0}
	// edge length: 200
	// crossings: 0
}
