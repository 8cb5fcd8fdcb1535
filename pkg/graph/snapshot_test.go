package graph

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/zonelink/pkg/geom"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := build(t, "A-B", "B-C")
	g.SetPosition("A", geom.Pt(-10, 5))
	expiry := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g.edges[0].Expiry = expiry

	snap := g.Snapshot()
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 {
		t.Fatalf("snapshot has %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
	if a, _ := snap.Node("A"); a.X != -10 || a.Y != 5 || a.Tier != "T6" {
		t.Errorf("node A = %+v", a)
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(snap, &buf); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, snap)
	}
}

func TestSnapshotFile(t *testing.T) {
	snap := build(t, "A-B").Snapshot()
	path := filepath.Join(t.TempDir(), "world.json")

	if err := WriteSnapshotFile(snap, path); err != nil {
		t.Fatalf("WriteSnapshotFile: %v", err)
	}
	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	if len(got.Edges) != 1 || got.Edges[0].Category != Gold {
		t.Errorf("edges = %+v", got.Edges)
	}
}

func TestReadSnapshotFileMissing(t *testing.T) {
	if _, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMarshalEmptySnapshot(t *testing.T) {
	data, err := MarshalSnapshot(New().Snapshot())
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) {
		t.Errorf("empty graph should encode an empty node list, got %s", data)
	}
}
