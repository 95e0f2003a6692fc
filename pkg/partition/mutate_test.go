package partition

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
)

func TestRemoveLeafRelayout(t *testing.T) {
	tree := mustBuild(t, threeRows())

	ch := tree.RemoveLeaf("b")
	if ch.Relayout != tree.Root() {
		t.Errorf("Relayout = %d, want root %d", ch.Relayout, tree.Root())
	}
	if ch.Promoted != NoNode {
		t.Errorf("Promoted = %d, want %d", ch.Promoted, NoNode)
	}
	if len(ch.Removed) != 1 {
		t.Errorf("Removed = %v, want one node", ch.Removed)
	}

	want := map[string]geom.Rect{
		"a": geom.R(0, 0, 1, 0.5),
		"c": geom.R(0, 0.5, 1, 0.5),
	}
	got := leafRects(tree)
	if len(got) != len(want) {
		t.Fatalf("leaves = %v, want %v", got, want)
	}
	for id, r := range want {
		if !got[id].ApproxEqual(r) {
			t.Errorf("leaf %q rect = %v, want %v", id, got[id], r)
		}
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestRemoveLeafIdempotent(t *testing.T) {
	tree := mustBuild(t, threeRows())

	if ch := tree.RemoveLeaf("b"); ch.Empty() {
		t.Fatal("first RemoveLeaf() returned an empty change")
	}
	before := tree.Flatten()

	if ch := tree.RemoveLeaf("b"); !ch.Empty() {
		t.Errorf("second RemoveLeaf() = %+v, want empty change", ch)
	}
	if ch := tree.RemoveLeaf("missing"); !ch.Empty() {
		t.Errorf("RemoveLeaf(missing) = %+v, want empty change", ch)
	}
	if after := tree.Flatten(); !reflect.DeepEqual(before, after) {
		t.Errorf("tree changed after repeated removal:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestRemoveLeafRemapsSubtree(t *testing.T) {
	tree := mustBuild(t, []Element{
		el("a", 0, 0, 0.5, 1.0/3),
		el("b", 0.5, 0, 0.5, 1.0/3),
		el("c", 0, 1.0/3, 1, 1.0/3),
		el("d", 0, 2.0/3, 1, 1.0/3),
	})

	tree.RemoveLeaf("c")

	want := map[string]geom.Rect{
		"a": geom.R(0, 0, 0.5, 0.5),
		"b": geom.R(0.5, 0, 0.5, 0.5),
		"d": geom.R(0, 0.5, 1, 0.5),
	}
	got := leafRects(tree)
	for id, r := range want {
		if !got[id].ApproxEqual(r) {
			t.Errorf("leaf %q rect = %v, want %v", id, got[id], r)
		}
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func nestedColumns() []Element {
	return []Element{
		el("a", 0, 0, 0.5, 1),
		el("b", 0.5, 0, 0.5, 0.5),
		el("c", 0.5, 0.5, 0.5, 0.5),
	}
}

func TestRemoveLeafPromotes(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantRect geom.Rect
	}{
		{name: "keeps rect", wantRect: geom.R(0.5, 0.5, 0.5, 0.5)},
		{name: "resize on promote", opts: []Option{WithResizeOnPromote(true)}, wantRect: geom.R(0.5, 0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustBuild(t, nestedColumns(), tt.opts...)
			right := tree.Children(tree.Root())[1]
			aLeaf, _ := tree.FindLeaf("a")
			bLeaf, _ := tree.FindLeaf("b")
			cLeaf, _ := tree.FindLeaf("c")

			ch := tree.RemoveLeaf("b")
			if ch.Promoted != cLeaf {
				t.Errorf("Promoted = %d, want %d", ch.Promoted, cLeaf)
			}
			if !slices.Equal(ch.Removed, []NodeID{bLeaf, right}) {
				t.Errorf("Removed = %v, want %v", ch.Removed, []NodeID{bLeaf, right})
			}
			if _, ok := tree.Node(right); ok {
				t.Error("promoted-away branch is still live")
			}

			c := mustNode(t, tree, cLeaf)
			if c.Parent != tree.Root() || c.Depth != 1 {
				t.Errorf("promoted leaf parent/depth = %d/%d, want %d/1", c.Parent, c.Depth, tree.Root())
			}
			if !c.Rect.ApproxEqual(tt.wantRect) {
				t.Errorf("promoted leaf rect = %v, want %v", c.Rect, tt.wantRect)
			}
			if got := tree.Children(tree.Root()); !slices.Equal(got, []NodeID{aLeaf, cLeaf}) {
				t.Errorf("root children = %v, want %v", got, []NodeID{aLeaf, cLeaf})
			}
		})
	}
}

func TestRemoveLeafPromotedSubtreeDepths(t *testing.T) {
	// Right column: b on top, then c|d side by side.
	tree := mustBuild(t, []Element{
		el("a", 0, 0, 0.5, 1),
		el("b", 0.5, 0, 0.5, 0.5),
		el("c", 0.5, 0.5, 0.25, 0.5),
		el("d", 0.75, 0.5, 0.25, 0.5),
	}, WithResizeOnPromote(true))

	tree.RemoveLeaf("b")

	for _, id := range []string{"c", "d"} {
		if n := mustLeaf(t, tree, id); n.Depth != 2 {
			t.Errorf("leaf %q depth = %d, want 2", id, n.Depth)
		}
	}
	if got := mustLeaf(t, tree, "d").Rect; !got.ApproxEqual(geom.R(0.75, 0, 0.25, 1)) {
		t.Errorf("leaf d rect = %v, want {0.75 0 0.25 1}", got)
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestRemoveLeafRootSurvivor(t *testing.T) {
	tree := mustBuild(t, []Element{el("a", 0, 0, 0.5, 1), el("b", 0.5, 0, 0.5, 1)})

	tree.RemoveLeaf("a")
	root := mustNode(t, tree, tree.Root())
	if root.Axis != geom.AxisNone {
		t.Errorf("root Axis = %v, want %v", root.Axis, geom.AxisNone)
	}
	if got := mustLeaf(t, tree, "b").Rect; !got.ApproxEqual(geom.Unit) {
		t.Errorf("survivor rect = %v, want %v", got, geom.Unit)
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}

	tree.RemoveLeaf("b")
	if got := tree.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1 after removing every leaf", got)
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("Verify() on empty tree = %v", err)
	}
}

func TestRemoveLeafConservesSpace(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := range 10 {
		elements := guillotine(rng, 4+round)
		tree := mustBuild(t, elements)

		order := rng.Perm(len(elements))
		for i, idx := range order {
			id := elements[idx].ID
			ch := tree.RemoveLeaf(id)
			if ch.Empty() {
				t.Fatalf("round %d: RemoveLeaf(%q) was a no-op", round, id)
			}
			if _, ok := tree.FindLeaf(id); ok {
				t.Fatalf("round %d: leaf %q still present", round, id)
			}
			if got, want := len(tree.Leaves()), len(elements)-i-1; got != want {
				t.Fatalf("round %d: %d leaves left, want %d", round, got, want)
			}
			if ch.Relayout == NoNode {
				continue
			}
			if err := tree.checkTiling(mustNode(t, tree, ch.Relayout)); err != nil {
				t.Errorf("round %d: after removing %q: %v", round, id, err)
			}
		}
	}
}

func TestRemoveLeafKeepsInvariantsWithResize(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 4))
	for round := range 10 {
		elements := guillotine(rng, 4+round)
		tree := mustBuild(t, elements, WithResizeOnPromote(true))

		for _, idx := range rng.Perm(len(elements)) {
			tree.RemoveLeaf(elements[idx].ID)
			if err := tree.Verify(); err != nil {
				t.Fatalf("round %d: after removing %q: %v", round, elements[idx].ID, err)
			}
		}
	}
}

func TestMutationsRejectBadArguments(t *testing.T) {
	tree := mustBuild(t, nestedColumns())
	root := tree.Root()
	bLeaf, _ := tree.FindLeaf("b")
	before := tree.Flatten()

	tests := []struct {
		name string
		fn   func() Change
	}{
		{"detach non-child", func() Change { return tree.Detach(root, bLeaf) }},
		{"detach unknown", func() Change { return tree.Detach(root, 99) }},
		{"promote root", func() Change { return tree.Promote(root) }},
		{"promote two children", func() Change { return tree.Promote(tree.Children(root)[1]) }},
		{"relayout leaf", func() Change { return tree.Relayout(bLeaf, nil) }},
		{"relayout unknown", func() Change { return tree.Relayout(NoNode, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ch := tt.fn(); !ch.Empty() {
				t.Errorf("change = %+v, want empty", ch)
			}
		})
	}
	if after := tree.Flatten(); !reflect.DeepEqual(before, after) {
		t.Error("rejected mutations modified the tree")
	}
}

func TestInsertLeaf(t *testing.T) {
	columns := []Element{el("a", 0, 0, 0.5, 1), el("b", 0.5, 0, 0.5, 1)}

	tests := []struct {
		name     string
		elements []Element
		target   string
		axis     geom.Axis
		after    bool
		want     map[string]geom.Rect
		depth    int
	}{
		{
			name:     "sibling after",
			elements: columns,
			target:   "b",
			axis:     geom.Horizontal,
			after:    true,
			want: map[string]geom.Rect{
				"a": geom.R(0, 0, 1.0/3, 1),
				"b": geom.R(1.0/3, 0, 1.0/3, 1),
				"n": geom.R(2.0/3, 0, 1.0/3, 1),
			},
			depth: 1,
		},
		{
			name:     "sibling before",
			elements: columns,
			target:   "a",
			axis:     geom.Horizontal,
			want: map[string]geom.Rect{
				"n": geom.R(0, 0, 1.0/3, 1),
				"a": geom.R(1.0/3, 0, 1.0/3, 1),
				"b": geom.R(2.0/3, 0, 1.0/3, 1),
			},
			depth: 1,
		},
		{
			name:     "wrap across axis",
			elements: columns,
			target:   "b",
			axis:     geom.Vertical,
			after:    true,
			want: map[string]geom.Rect{
				"a": geom.R(0, 0, 0.5, 1),
				"b": geom.R(0.5, 0, 0.5, 0.5),
				"n": geom.R(0.5, 0.5, 0.5, 0.5),
			},
			depth: 2,
		},
		{
			name:     "single leaf adopts axis",
			elements: []Element{el("a", 0, 0, 1, 1)},
			target:   "a",
			axis:     geom.Vertical,
			after:    true,
			want: map[string]geom.Rect{
				"a": geom.R(0, 0, 1, 0.5),
				"n": geom.R(0, 0.5, 1, 0.5),
			},
			depth: 1,
		},
		{
			name:     "empty tree",
			elements: nil,
			axis:     geom.Horizontal,
			want:     map[string]geom.Rect{"n": geom.Unit},
			depth:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustBuild(t, tt.elements)

			ch, err := tree.InsertLeaf(tt.target, Element{ID: "n", Label: "new"}, tt.axis, tt.after)
			if err != nil {
				t.Fatalf("InsertLeaf() error: %v", err)
			}
			n := mustNode(t, tree, ch.Inserted)
			if n.Leaf == nil || n.Leaf.ElementID != "n" || n.Leaf.Label != "new" {
				t.Errorf("inserted node = %+v, want leaf n", n)
			}
			if n.Depth != tt.depth {
				t.Errorf("inserted depth = %d, want %d", n.Depth, tt.depth)
			}

			got := leafRects(tree)
			if len(got) != len(tt.want) {
				t.Fatalf("leaves = %v, want %v", got, tt.want)
			}
			for id, r := range tt.want {
				if !got[id].ApproxEqual(r) {
					t.Errorf("leaf %q rect = %v, want %v", id, got[id], r)
				}
			}
			if err := tree.Verify(); err != nil {
				t.Errorf("Verify() = %v", err)
			}
		})
	}
}

func TestInsertLeafWrapperKind(t *testing.T) {
	tree := mustBuild(t, []Element{el("a", 0, 0, 0.5, 1), el("b", 0.5, 0, 0.5, 1)})

	ch, err := tree.InsertLeaf("b", Element{ID: "n"}, geom.Vertical, false)
	if err != nil {
		t.Fatalf("InsertLeaf() error: %v", err)
	}
	wrapper := mustNode(t, tree, tree.Parent(ch.Inserted))
	if wrapper.Kind != VerticalBranch || wrapper.Axis != geom.Vertical {
		t.Errorf("wrapper = %v/%v, want vertical branch", wrapper.Kind, wrapper.Axis)
	}
	if ch.Relayout != wrapper.ID {
		t.Errorf("Relayout = %d, want wrapper %d", ch.Relayout, wrapper.ID)
	}
	if first := mustNode(t, tree, wrapper.Children[0]); first.ID != ch.Inserted {
		t.Errorf("inserting before placed leaf at %v", wrapper.Children)
	}
}

func TestInsertLeafErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		e      Element
		axis   geom.Axis
		code   perrors.Code
	}{
		{"duplicate id", "a", Element{ID: "b"}, geom.Horizontal, perrors.ErrCodeDuplicateID},
		{"unknown target", "zzz", Element{ID: "n"}, geom.Horizontal, perrors.ErrCodeNotFound},
		{"no axis", "a", Element{ID: "n"}, geom.AxisNone, perrors.ErrCodeInvalidInput},
		{"empty id", "a", Element{}, geom.Vertical, perrors.ErrCodeInvalidInput},
		{"slash in id", "a", Element{ID: "left/top"}, geom.Vertical, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustBuild(t, []Element{el("a", 0, 0, 0.5, 1), el("b", 0.5, 0, 0.5, 1)})
			before := tree.Flatten()

			_, err := tree.InsertLeaf(tt.target, tt.e, tt.axis, true)
			if !perrors.Is(err, tt.code) {
				t.Errorf("InsertLeaf() error = %v, want %s", err, tt.code)
			}
			if after := tree.Flatten(); !reflect.DeepEqual(before, after) {
				t.Error("failed insert modified the tree")
			}
		})
	}
}

func TestInsertThenRemove(t *testing.T) {
	tree := mustBuild(t, nestedColumns(), WithResizeOnPromote(true))

	if _, err := tree.InsertLeaf("c", Element{ID: "n"}, geom.Horizontal, true); err != nil {
		t.Fatalf("InsertLeaf() error: %v", err)
	}
	if err := tree.Verify(); err != nil {
		t.Fatalf("Verify() after insert = %v", err)
	}
	tree.RemoveLeaf("n")
	if err := tree.Verify(); err != nil {
		t.Fatalf("Verify() after remove = %v", err)
	}
	if got := mustLeaf(t, tree, "c").Rect; !got.ApproxEqual(geom.R(0.5, 0.5, 0.5, 0.5)) {
		t.Errorf("leaf c rect = %v, want it back in its cell", got)
	}
}

func TestClone(t *testing.T) {
	tree := mustBuild(t, threeRows())
	before := tree.Flatten()

	clone := tree.Clone()
	clone.RemoveLeaf("a")

	if after := tree.Flatten(); !reflect.DeepEqual(before, after) {
		t.Error("mutating the clone changed the original")
	}
	if _, ok := clone.FindLeaf("a"); ok {
		t.Error("clone still holds removed leaf")
	}
}
