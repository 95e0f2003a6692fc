package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/panetree/pkg/cache"
	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/partition"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"dot-svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		FormatSVG:    "svg",
		FormatDOTSVG: "dot.svg",
		FormatJSON:   "tree.json",
		FormatPNG:    "png",
	}
	for format, want := range tests {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{PanelsPath: "panels.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.TTL != cache.TTLLayout {
		t.Errorf("TTL = %v, want %v", opts.TTL, cache.TTLLayout)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	if len(opts.Formats) != 0 {
		t.Errorf("Formats = %v, want none", opts.Formats)
	}

	// Idempotent
	opts.Width = 10
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Width != 10 {
		t.Errorf("second call changed options: width=%d err=%v", opts.Width, err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no input", Options{}},
		{"bad format", Options{PanelsPath: "p.json", Formats: []string{"gif"}}},
		{"negative size", Options{PanelsPath: "p.json", Width: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestKeyOptsDependOnOptions(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	a := Options{Remove: []string{"b"}}
	b := Options{Remove: []string{"b"}, ResizeOnPromote: true}
	if keyer.LayoutKey("h", a.LayoutKeyOpts()) == keyer.LayoutKey("h", b.LayoutKeyOpts()) {
		t.Error("resize_on_promote should change the layout key")
	}
	c := Options{Width: 100, Height: 50}
	if keyer.ArtifactKey("h", c.ArtifactKeyOpts(FormatSVG)) == keyer.ArtifactKey("h", c.ArtifactKeyOpts(FormatPNG)) {
		t.Error("format should change the artifact key")
	}
}

func columns() []partition.Element {
	return []partition.Element{
		{ID: "a", Rect: geom.R(0, 0, 0.5, 1), Label: "left"},
		{ID: "b", Rect: geom.R(0.5, 0, 0.5, 0.5)},
		{ID: "c", Rect: geom.R(0.5, 0.5, 0.5, 0.5)},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecuteCaches(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Elements: columns(), Remove: []string{"b"}, Formats: []string{FormatSVG, FormatJSON, FormatDOT}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if first.Snapshot.ElementCount != 2 {
		t.Errorf("ElementCount = %d, want 2", first.Snapshot.ElementCount)
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("refresh should bypass the layout cache")
	}
}

func TestExecuteBuildOnly(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Elements: columns()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("Artifacts = %d, want none", len(res.Artifacts))
	}
	if res.Stats.ElementCount != 3 || res.Stats.NodeCount != 5 {
		t.Errorf("stats = %+v, want 3 elements and 5 nodes", res.Stats)
	}
}

func TestExecuteRendersPDF(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Elements: columns(), Formats: []string{FormatPDF, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPDF], []byte("%PDF-")) {
		t.Errorf("pdf artifact = %.20q, want a PDF document", res.Artifacts[FormatPDF])
	}
	if len(res.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact is empty")
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yaml")
	doc := `panels:
  - {id: top, x: 0, y: 0, width: 1, height: 0.25}
  - {id: body, x: 0, y: 0.25, width: 1, height: 0.75}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{PanelsPath: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.PanelsHash == "" {
		t.Error("PanelsHash should be set")
	}
	if got := res.Snapshot.Nodes[0].Axis; got != "vertical" {
		t.Errorf("root axis = %q, want vertical", got)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{PanelsPath: filepath.Join(t.TempDir(), "missing.json")})
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	pinwheel := []partition.Element{
		{ID: "a", Rect: geom.R(0, 0, 2.0/3, 1.0/3)},
		{ID: "b", Rect: geom.R(2.0/3, 0, 1.0/3, 2.0/3)},
		{ID: "c", Rect: geom.R(1.0/3, 2.0/3, 2.0/3, 1.0/3)},
		{ID: "d", Rect: geom.R(0, 1.0/3, 1.0/3, 2.0/3)},
		{ID: "e", Rect: geom.R(1.0/3, 1.0/3, 1.0/3, 1.0/3)},
	}
	_, err = r.Execute(ctx, Options{Elements: pinwheel})
	if !perrors.Is(err, perrors.ErrCodeUnpartitionable) {
		t.Errorf("pinwheel: err = %v, want UNPARTITIONABLE", err)
	}
}

func TestLayoutReturnsLiveTree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	tree, err := r.Layout(ctx, Options{Elements: columns(), Remove: []string{"c", "missing"}, ResizeOnPromote: true})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := len(tree.Leaves()); got != 2 {
		t.Fatalf("leaves = %d, want 2", got)
	}

	if _, err := InsertLeaf(ctx, tree, "a", partition.Element{ID: "d"}, geom.Vertical, true); err != nil {
		t.Fatalf("InsertLeaf: %v", err)
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
