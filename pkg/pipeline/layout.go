package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/panetree/pkg/cache"
	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/observability"
	"github.com/matzehuels/panetree/pkg/panels"
	"github.com/matzehuels/panetree/pkg/partition"
)

// =============================================================================
// Read
// =============================================================================

// ReadPanels loads the elements named by opts and returns them with a content
// hash suitable for cache keys. Elements given directly take precedence over
// PanelsPath.
func ReadPanels(ctx context.Context, opts Options) ([]partition.Element, string, error) {
	if opts.Elements != nil {
		if err := panels.Validate(opts.Elements); err != nil {
			return nil, "", err
		}
		var buf bytes.Buffer
		if err := panels.Write(&buf, panels.FormatJSON, opts.Elements); err != nil {
			return nil, "", err
		}
		return opts.Elements, cache.Hash(buf.Bytes()), nil
	}

	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, opts.PanelsPath)
	start := time.Now()

	elements, hash, err := readFile(opts.PanelsPath)
	hooks.OnReadComplete(ctx, opts.PanelsPath, len(elements), time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return elements, hash, nil
}

func readFile(path string) ([]partition.Element, string, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	format, err := panels.DetectFormat(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	elements, err := panels.Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return elements, cache.Hash(data), nil
}

// =============================================================================
// Build
// =============================================================================

// BuildTree reconstructs the partition tree for elements and then removes
// every id in opts.Remove, in order. Unknown ids are skipped, so a removal
// list can be replayed.
func BuildTree(ctx context.Context, elements []partition.Element, opts Options) (*partition.Tree, error) {
	opts.setCommonDefaults()
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(elements))
	start := time.Now()

	tree, err := partition.Build(elements, opts.PartitionOptions()...)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}

	for _, id := range opts.Remove {
		ch := RemoveLeaf(ctx, tree, id)
		if ch.Empty() {
			opts.Logger.Warn("no leaf to remove", "id", id)
			continue
		}
		opts.Logger.Debug("removed leaf", "id", id, "detached", len(ch.Removed), "promoted", ch.Promoted != partition.NoNode)
	}

	hooks.OnBuildComplete(ctx, tree.Len(), time.Since(start), nil)
	return tree, nil
}

// RemoveLeaf removes id from tree and reports the edit to the mutation hooks.
func RemoveLeaf(ctx context.Context, tree *partition.Tree, id string) partition.Change {
	ch := tree.RemoveLeaf(id)
	observability.Mutation().OnRemove(ctx, id, len(ch.Removed), ch.Promoted != partition.NoNode)
	return ch
}

// InsertLeaf inserts e next to target and reports the edit to the mutation
// hooks.
func InsertLeaf(ctx context.Context, tree *partition.Tree, target string, e partition.Element, axis geom.Axis, after bool) (partition.Change, error) {
	ch, err := tree.InsertLeaf(target, e, axis, after)
	observability.Mutation().OnInsert(ctx, e.ID, err)
	return ch, err
}
