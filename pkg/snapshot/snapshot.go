// Package snapshot defines the JSON wire format of a built partition tree.
//
// A snapshot is the tree flattened in pre-order. Node ids are renumbered to
// their position in the list, so the root is always node 0 and every parent
// precedes its children:
//
//	{
//	  "version": 1,
//	  "element_count": 2,
//	  "nodes": [
//	    {"id": 0, "parent": -1, "kind": "root", "axis": "horizontal", "depth": 0, "x": 0, "y": 0, "width": 1, "height": 1},
//	    {"id": 1, "parent": 0, "kind": "leaf", "depth": 1, "x": 0, "y": 0, "width": 0.5, "height": 1, "element_id": "a"},
//	    {"id": 2, "parent": 0, "kind": "leaf", "depth": 1, "x": 0.5, "y": 0, "width": 0.5, "height": 1, "element_id": "b"}
//	  ]
//	}
//
// Snapshots are what the CLI writes next to a panel file, what the layout
// cache stores, and what the renderers and preview server consume.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/partition"
)

// Version is the snapshot format version written by this package.
const Version = 1

// Snapshot is a serializable, read-only view of a partition tree.
type Snapshot struct {
	Version      int    `json:"version"`
	ElementCount int    `json:"element_count"`
	Nodes        []Node `json:"nodes"`
}

// Node is one tree node. Parent is -1 for the root.
type Node struct {
	ID        int     `json:"id"`
	Parent    int     `json:"parent"`
	Kind      string  `json:"kind"`
	Axis      string  `json:"axis,omitempty"`
	Depth     int     `json:"depth"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ElementID string  `json:"element_id,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// Rect returns the node's absolute rect.
func (n Node) Rect() geom.Rect { return geom.R(n.X, n.Y, n.Width, n.Height) }

// IsLeaf reports whether n holds an element.
func (n Node) IsLeaf() bool { return n.Kind == partition.Leaf.String() }

// FromTree flattens t into a snapshot.
func FromTree(t *partition.Tree) *Snapshot {
	flat := t.Flatten()
	index := make(map[partition.NodeID]int, len(flat))
	s := &Snapshot{Version: Version, Nodes: make([]Node, 0, len(flat))}

	for i, n := range flat {
		index[n.ID] = i
		parent := -1
		if p, ok := index[n.Parent]; ok {
			parent = p
		}
		out := Node{
			ID:     i,
			Parent: parent,
			Kind:   n.Kind.String(),
			Depth:  n.Depth,
			X:      n.Rect.X,
			Y:      n.Rect.Y,
			Width:  n.Rect.Width,
			Height: n.Rect.Height,
		}
		if n.Axis != geom.AxisNone {
			out.Axis = n.Axis.String()
		}
		if n.Leaf != nil {
			out.ElementID = n.Leaf.ElementID
			out.Label = n.Leaf.Label
			s.ElementCount++
		}
		s.Nodes = append(s.Nodes, out)
	}
	return s
}

// Leaves returns the leaf nodes in pre-order.
func (s *Snapshot) Leaves() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the nodes whose parent is id, in layout order.
func (s *Snapshot) Children(id int) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// Elements returns the leaves as engine input, in pre-order. Building a tree
// from them reproduces the leaf rects of the snapshot.
func (s *Snapshot) Elements() []partition.Element {
	leaves := s.Leaves()
	out := make([]partition.Element, len(leaves))
	for i, n := range leaves {
		out[i] = partition.Element{ID: n.ElementID, Rect: n.Rect(), Label: n.Label}
	}
	return out
}

// Validate checks the structural consistency of a decoded snapshot.
func (s *Snapshot) Validate() error {
	if s.Version != Version {
		return perrors.New(perrors.ErrCodeInvalidFormat, "unsupported snapshot version %d (want %d)", s.Version, Version)
	}
	if len(s.Nodes) == 0 {
		return perrors.New(perrors.ErrCodeInvalidFormat, "snapshot has no root node")
	}
	leaves := 0
	for i, n := range s.Nodes {
		if n.ID != i {
			return perrors.New(perrors.ErrCodeInvalidFormat, "node %d has id %d", i, n.ID)
		}
		if _, err := partition.ParseKind(n.Kind); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "node %d", i)
		}
		if _, err := geom.ParseAxis(n.Axis); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "node %d", i)
		}
		switch {
		case i == 0 && n.Parent != -1:
			return perrors.New(perrors.ErrCodeInvalidFormat, "root has parent %d", n.Parent)
		case i > 0 && (n.Parent < 0 || n.Parent >= i):
			return perrors.New(perrors.ErrCodeInvalidFormat, "node %d has parent %d outside pre-order", i, n.Parent)
		case i > 0 && s.Nodes[n.Parent].Depth+1 != n.Depth:
			return perrors.New(perrors.ErrCodeInvalidFormat, "node %d depth %d under parent depth %d", i, n.Depth, s.Nodes[n.Parent].Depth)
		}
		if n.IsLeaf() {
			leaves++
		}
	}
	if leaves != s.ElementCount {
		return perrors.New(perrors.ErrCodeInvalidFormat, "element_count %d but %d leaves", s.ElementCount, leaves)
	}
	return nil
}

// Write encodes s as indented JSON.
func Write(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes and validates a snapshot from r.
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal returns the compact JSON encoding of s.
func Marshal(s *Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes and validates a snapshot from data.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteFile writes s to path.
func WriteFile(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, s)
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
