package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
)

var zonesFile = filepath.Join("..", "..", "pkg", "zones", "testdata", "zones.json")

// runCLI executes the root command against a file store in dir, with the
// zone catalog read from testdata and no user config.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	// Flags in args come last and so override these.
	root.SetArgs(append([]string{
		"--zones-file", zonesFile,
		"--store", "file",
		"--data-dir", dir,
		"--seed", "7",
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestAddListDelete(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "add", "thetford", "Setent-Qintis", "-c", "blue", "--hours", "2")
	if !strings.Contains(out, "Connected Thetford ↔ Setent-Qintis") {
		t.Errorf("add output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "connections.json")); err != nil {
		t.Fatalf("store file not written: %v", err)
	}

	mustRun(t, dir, "add", "Thetford", "Everwinter Expanse", "-c", "royal")

	out = mustRun(t, dir, "list")
	for _, want := range []string{"Setent-Qintis", "Everwinter Expanse", "blue", "royal", "3 zones", "2 connections"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, dir, "delete", "Thetford")
	if !strings.Contains(out, "Removed Thetford and 2 connections") {
		t.Errorf("delete output = %q", out)
	}

	out = mustRun(t, dir, "list")
	if !strings.Contains(out, "No connections") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestAddReplacesPair(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis", "--hours", "1")
	mustRun(t, dir, "add", "Setent-Qintis", "Thetford", "-c", "gold", "--hours", "3")

	out := mustRun(t, dir, "list")
	if !strings.Contains(out, "1 connections") || !strings.Contains(out, "gold") {
		t.Errorf("list output = %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want zerrors.Code
	}{
		{"unknown zone", []string{"add", "Thetford", "Atlantis", "--hours", "1"}, zerrors.ErrCodeZoneNotFound},
		{"self loop", []string{"add", "Thetford", "THETFORD", "--hours", "1"}, zerrors.ErrCodeInvalidInput},
		{"bad category", []string{"add", "Thetford", "Setent-Qintis", "-c", "purple"}, zerrors.ErrCodeInvalidCategory},
		{"bad minutes", []string{"add", "Thetford", "Setent-Qintis", "-m", "75"}, zerrors.ErrCodeInvalidInput},
		{"delete missing", []string{"delete", "Thetford"}, zerrors.ErrCodeNotFound},
		{"bad format", []string{"render", "-f", "pdf"}, zerrors.ErrCodeInvalidInput},
		{"bad store", []string{"list", "--store", "cassandra"}, zerrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, t.TempDir(), tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !zerrors.Is(err, tt.want) {
				t.Errorf("error %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis")
	mustRun(t, dir, "add", "Thetford", "Everwinter Expanse", "-c", "royal")

	out := mustRun(t, dir, "sweep")
	if !strings.Contains(out, "Removed 1 expired connections") {
		t.Errorf("sweep output = %q", out)
	}
	out = mustRun(t, dir, "sweep")
	if !strings.Contains(out, "Nothing expired") {
		t.Errorf("second sweep output = %q", out)
	}
}

func TestListComponents(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis", "--hours", "1")
	mustRun(t, dir, "add", "Sleetwater Basin", "Firesink Caldera", "--hours", "1")

	out := mustRun(t, dir, "list", "--components")
	if !strings.Contains(out, "2 components") {
		t.Errorf("components output = %q", out)
	}
}

func TestExpiredConnectionsHidden(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	data := fmt.Sprintf(`[
  {"id":"live","start":"Thetford","end":"Setent-Qintis","type":"blue","endtime":%d},
  {"id":"stale","start":"Sleetwater Basin","end":"Firesink Caldera","type":"green","endtime":%d}
]`, now.Add(time.Hour).UnixMilli(), now.Add(-time.Hour).UnixMilli())
	storePath := filepath.Join(dir, "connections.json")
	if err := os.WriteFile(storePath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, dir, "layout")
	if strings.Contains(out, "stale") || strings.Contains(out, "Sleetwater Basin") {
		t.Errorf("layout shows an expired connection:\n%s", out)
	}
	if !strings.Contains(out, `"live"`) {
		t.Errorf("layout lost the live connection:\n%s", out)
	}

	base := filepath.Join(dir, "map")
	mustRun(t, dir, "render", "-f", "svg", "-o", base)
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(svg, []byte("Sleetwater Basin")) || bytes.Contains(svg, []byte("-1h")) {
		t.Errorf("svg draws an expired connection: %.300s", svg)
	}

	stored, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(stored, []byte("stale")) {
		t.Error("expired record should be deleted from the store")
	}
}

func TestLayoutAndRender(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis", "--hours", "1")
	mustRun(t, dir, "add", "Setent-Qintis", "Deadvein Gully", "-c", "gold", "--hours", "1")

	snapPath := filepath.Join(dir, "snap.json")
	mustRun(t, dir, "layout", "-o", snapPath, "--width", "800", "--height", "600", "--distance", "150")

	snap, err := graph.ReadSnapshotFile(snapPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 {
		t.Fatalf("snapshot has %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
	if snap.Viewport.Width != 800 || snap.Viewport.Height != 600 {
		t.Errorf("viewport = %+v", snap.Viewport)
	}
	if snap.Distance != 150 {
		t.Errorf("distance = %v, want 150", snap.Distance)
	}

	base := filepath.Join(dir, "map")
	out := mustRun(t, dir, "render", "--from", snapPath, "-f", "svg,dot", "-o", base, "--selected", "Thetford")
	if !strings.Contains(out, base+".svg") || !strings.Contains(out, base+".dot") {
		t.Errorf("render output = %q", out)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Deadvein Gully")) {
		t.Errorf("unexpected svg: %.200s", svg)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("graph G")) {
		t.Errorf("unexpected dot: %.200s", dot)
	}
}

func TestLayoutStdout(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis", "--hours", "1")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"layout", "--zones-file", zonesFile, "--store", "file", "--data-dir", dir})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap, err := graph.ReadSnapshot(&out)
	if err != nil {
		t.Fatalf("stdout is not a snapshot: %v", err)
	}
	if _, ok := snap.Node("Setent-Qintis"); !ok {
		t.Error("snapshot misses Setent-Qintis")
	}
}

func TestRenderPNG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	dir := t.TempDir()
	mustRun(t, dir, "add", "Thetford", "Setent-Qintis", "--hours", "1")

	base := filepath.Join(dir, "map")
	mustRun(t, dir, "render", "-f", "png", "-o", base)

	png, err := os.ReadFile(base + ".png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestZonesCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "zones", "search", "se")
	if !strings.Contains(out, "Setent-Qintis") {
		t.Errorf("search output = %q", out)
	}
	if strings.Contains(out, "Placeholder") {
		t.Error("placeholder zones must not be searchable")
	}

	out = mustRun(t, dir, "zones", "search", "zzz")
	if !strings.Contains(out, `No zone matches "zzz"`) {
		t.Errorf("empty search output = %q", out)
	}

	out = mustRun(t, dir, "zones", "show", "everwinter expanse")
	for _, want := range []string{"Everwinter Expanse", "T6", "black"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, dir, "zones", "show", "Atlantis"); err == nil {
		t.Error("show of an unknown zone should fail")
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zonelink.toml")

	mustRun(t, dir, "config", "init", "--config", path)
	if _, err := runCLI(t, dir, "config", "init", "--config", path); err == nil {
		t.Error("init should refuse to overwrite")
	}
	mustRun(t, dir, "config", "init", "--config", path, "--force")

	mustRun(t, dir, "config", "set", "layout.distance", "300", "--config", path)
	out := mustRun(t, dir, "config", "show", "--config", path)
	if !strings.Contains(out, "distance = 300.0") {
		t.Errorf("show output missing distance:\n%s", out)
	}

	out = mustRun(t, dir, "config", "path", "--config", path)
	if strings.TrimSpace(out) != path {
		t.Errorf("path = %q, want %q", out, path)
	}

	for _, args := range [][]string{
		{"config", "set", "layout.colour", "red"},
		{"config", "set", "layout.distance", "far"},
		{"config", "set", "layout.distance", "-5"},
	} {
		if _, err := runCLI(t, dir, append(args, "--config", path)...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "cache", "path")
	if want := filepath.Join(dir, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, appName, "entry"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, dir, "cache", "clear")
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	out = mustRun(t, dir, "cache", "clear")
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out := mustRun(t, t.TempDir(), "completion", shell)
			if !strings.Contains(out, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, PNG,dot", []string{"svg", "png", "dot"}},
		{"svg,svg,,dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if err := validateFormats([]string{"svg", "png", "dot"}); err != nil {
		t.Errorf("validateFormats: %v", err)
	}
	if err := validateFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("pdf should be rejected")
	}
}
