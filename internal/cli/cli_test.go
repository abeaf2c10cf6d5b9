package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerdefs/pkg/buildinfo"
	"github.com/matzehuels/layerdefs/pkg/observability"
)

const testMap = `{
  "analyses": [
    {"id": "a0", "type": "source", "params": {"query": "SELECT * FROM stores"}},
    {"id": "a1", "type": "buffer", "source": "a0", "params": {"radius": 300}},
    {"id": "b1", "type": "intersection", "source": "a1"},
    {"id": "c1", "type": "sample", "source": "b1"}
  ],
  "layers": [
    {"id": "stores", "kind": "carto", "letter": "a", "options": {"table_name": "stores", "source": "a1", "query": "SELECT * FROM stores"}},
    {"id": "parks", "kind": "carto", "letter": "b", "options": {"table_name": "parks", "source": "b1"}},
    {"id": "trees", "kind": "carto", "letter": "c", "options": {"table_name": "trees", "source": "c1"}},
    {"id": "base", "kind": "tiled", "options": {"type": "Tiled"}}
  ]
}`

// setup moves into a scratch directory holding map.json and captures
// command output.
func setup(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("map.json", []byte(testMap), 0o644); err != nil {
		t.Fatal(err)
	}

	out = &bytes.Buffer{}
	prev := stdout
	stdout = out
	t.Cleanup(func() {
		stdout = prev
		observability.Reset()
	})
	return dir, out
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	for _, name := range []string{"inspect", "dependents", "render", "save", "store", "watch", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
}

func TestInspect(t *testing.T) {
	_, out := setup(t)

	if err := execute(t, "inspect", "map.json"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	got := out.String()
	for _, want := range []string{"stores", "parks", "trees", "base", "Dependents", "stores (a) → parks (b)", "parks (b) → trees (c)"} {
		if !strings.Contains(got, want) {
			t.Errorf("inspect output missing %q:\n%s", want, got)
		}
	}
}

func TestInspectJSON(t *testing.T) {
	_, out := setup(t)

	if err := execute(t, "inspect", "--json", "map.json"); err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var doc struct {
		Layers []struct {
			ID      string         `json:"id"`
			Letter  string         `json:"letter"`
			Options map[string]any `json:"options"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(doc.Layers) != 4 || doc.Layers[0].Letter != "a" {
		t.Fatalf("unexpected layers: %+v", doc.Layers)
	}
	if _, ok := doc.Layers[0].Options["sql_history"]; !ok {
		t.Error("canonical document should carry sql_history")
	}
}

func TestDependents(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"stores", "2"},
		{"a", "2"},
		{"B", "1"},
		{"trees", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, out := setup(t)
			if err := execute(t, "dependents", "--count", "map.json", tt.ref); err != nil {
				t.Fatalf("dependents: %v", err)
			}
			if got := strings.TrimSpace(out.String()); got != tt.want {
				t.Errorf("dependents %s = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestDependentsUnknownLayer(t *testing.T) {
	setup(t)
	if err := execute(t, "dependents", "map.json", "rivers"); err == nil {
		t.Error("expected error for unknown layer")
	}
}

func TestRenderDOT(t *testing.T) {
	_, out := setup(t)

	if err := execute(t, "render", "map.json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), `subgraph "cluster_a"`) {
		t.Errorf("render output is not clustered DOT:\n%s", out.String())
	}

	out.Reset()
	if err := execute(t, "render", "--view", "layers", "-o", "layers.dot", "map.json"); err != nil {
		t.Fatalf("render --view layers: %v", err)
	}
	data, err := os.ReadFile("layers.dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"stores" -> "parks";`) {
		t.Errorf("layers.dot missing dependency edge:\n%s", data)
	}
}

func TestRenderRejectsBadOptions(t *testing.T) {
	setup(t)
	if err := execute(t, "render", "-o", "out.gif", "map.json"); err == nil {
		t.Error("expected error for gif output")
	}
	if err := execute(t, "render", "--view", "tower", "map.json"); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestSaveAndStore(t *testing.T) {
	dir, out := setup(t)
	storeDir := filepath.Join(dir, "saved")

	err := execute(t, "save", "--store", "file", "--dir", storeDir, "--layer", "b", "--set", "color=#FABADA", "--set", "visible=true", "map.json")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "parks.json")); err != nil {
		t.Fatalf("parks.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "stores.json")); err == nil {
		t.Error("--layer should save only the named layer")
	}

	out.Reset()
	if err := execute(t, "store", "get", "--store", "file", "--dir", storeDir, "parks"); err != nil {
		t.Fatalf("store get: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("store get output is not JSON: %v", err)
	}
	opts := doc["options"].(map[string]any)
	if opts["color"] != "#FABADA" || opts["visible"] != true {
		t.Errorf("saved options = %v", opts)
	}
	if _, ok := opts["autoStyle"]; ok {
		t.Error("autoStyle must not be persisted")
	}

	if err := execute(t, "store", "rm", "--store", "file", "--dir", storeDir, "parks"); err != nil {
		t.Fatalf("store rm: %v", err)
	}
	if err := execute(t, "store", "get", "--store", "file", "--dir", storeDir, "parks"); err == nil {
		t.Error("store get after rm should fail")
	}
}

func TestSaveAllWithWriteBack(t *testing.T) {
	dir, _ := setup(t)
	storeDir := filepath.Join(dir, "saved")

	if err := execute(t, "save", "--store", "file", "--dir", storeDir, "--write", "map.json"); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, id := range []string{"stores", "parks", "trees", "base"} {
		if _, err := os.Stat(filepath.Join(storeDir, id+".json")); err != nil {
			t.Errorf("%s not saved: %v", id, err)
		}
	}
	data, _ := os.ReadFile("map.json")
	if !strings.Contains(string(data), `"cartocss_history"`) {
		t.Errorf("--write should store the canonical document:\n%s", data)
	}
}

func TestSaveNullStore(t *testing.T) {
	setup(t)
	if err := execute(t, "save", "map.json"); err != nil {
		t.Fatalf("save to null store: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir, _ := setup(t)
	storeDir := filepath.Join(dir, "from-config")
	cfg := "store = \"file\"\ndir = \"" + filepath.ToSlash(storeDir) + "\"\n"
	if err := os.WriteFile("layerdefs.toml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "save", "--layer", "stores", "map.json"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "stores.json")); err != nil {
		t.Errorf("config file store not used: %v", err)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"visible=false", "radius=12.5", `title="a=b"`, "color=#fff"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"visible": false, "radius": 12.5, "title": "a=b", "color": "#fff"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %#v", k, got[k], v)
		}
	}

	if _, err := parseAssignments([]string{"novalue"}); err == nil {
		t.Error("expected error for missing '='")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output, want string
		wantErr              bool
	}{
		{"", "", "dot", false},
		{"", "-", "dot", false},
		{"", "out.SVG", "svg", false},
		{"png", "out.svg", "png", false},
		{"", "out.gif", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.output)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, %v", tt.format, tt.output, got, err)
		}
	}
}

func TestFileWatcher(t *testing.T) {
	dir, _ := setup(t)
	path := filepath.Join(dir, "map.json")

	w, err := newFileWatcher(path, 10*time.Millisecond, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.run(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// unrelated files are ignored
	_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644)
	if err := os.WriteFile(path, []byte(testMap), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Error("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("run() = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	_, out := setup(t)
	if err := execute(t, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "layerdefs") {
		t.Error("bash completion should mention layerdefs")
	}
}
