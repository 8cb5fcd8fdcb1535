package world_test

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/world"
	"github.com/matzehuels/zonelink/pkg/zones"
)

func ExampleWorld_Upsert() {
	catalog := zones.New([]zones.Zone{
		{Name: "Setent-Qintis", Tier: "T6", Color: "road-ho"},
		{Name: "Thetford", Tier: "T4", Color: "city"},
	})
	w := world.New(catalog, world.WithSeed(1))

	now := time.Now()
	e, _ := w.Upsert(context.Background(), "thetford", "setent-qintis", graph.Gold, now.Add(2*time.Hour))
	fmt.Println(e.Start, "->", e.End)

	home, _ := w.NodeAt(0, 0)
	fmt.Println("home:", home.Key())
	fmt.Println(world.TimeLeft(e.Expiry, now))
	// Output:
	// Thetford -> Setent-Qintis
	// home: Setent-Qintis
	// 2h 1m
}
