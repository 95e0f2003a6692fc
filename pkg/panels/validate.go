package panels

import (
	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/partition"
)

// Validate checks that elements are a legal engine input: ids are valid and
// unique, every rect lies inside the unit square, and no two rects overlap.
// It returns the first problem found.
func Validate(elements []partition.Element) error {
	seen := make(map[string]int, len(elements))
	for i, e := range elements {
		if err := perrors.ValidateElementID(e.ID); err != nil {
			return perrors.New(perrors.GetCode(err), "panel %d: %s", i, perrors.UserMessage(err))
		}
		if prev, dup := seen[e.ID]; dup {
			return perrors.New(perrors.ErrCodeDuplicateID, "panels %d and %d share id %q", prev, i, e.ID)
		}
		seen[e.ID] = i

		r := e.Rect
		if err := perrors.ValidateNormalizedRect(r.X, r.Y, r.Width, r.Height, geom.Epsilon); err != nil {
			return perrors.New(perrors.ErrCodeInvalidRect, "panel %q: %s", e.ID, perrors.UserMessage(err))
		}
	}

	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			if elements[i].Rect.Overlaps(elements[j].Rect) {
				return perrors.New(perrors.ErrCodeInvalidInput, "panels %q and %q overlap", elements[i].ID, elements[j].ID)
			}
		}
	}
	return nil
}
