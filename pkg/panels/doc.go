// Package panels reads and writes the flat panel lists that feed the
// partition engine.
//
// # File Format
//
// A panel file holds one top-level "panels" array. Each panel is a placement
// in normalized [0,1] container units with the origin at the top-left:
//
//	{
//	  "panels": [
//	    {"id": "map",   "x": 0,   "y": 0,   "width": 0.5, "height": 1, "label": "Map"},
//	    {"id": "chart", "x": 0.5, "y": 0,   "width": 0.5, "height": 0.5},
//	    {"x": 0.5, "y": 0.5, "width": 0.5, "height": 0.5}
//	  ]
//	}
//
// The same structure is accepted as YAML and as TOML (an array of [[panels]]
// tables). The format is chosen from the file extension; see [DetectFormat].
//
// Panels without an id are assigned a short random one when read, so every
// element handed to the engine is addressable.
//
// # Validation
//
// [Read] and [Import] run [Validate] on the decoded panels: ids must be
// unique and well formed, rects must be finite, non-negative and inside the
// unit square, and no two panels may overlap. Errors carry codes from
// [github.com/matzehuels/panetree/pkg/errors].
//
// # Export
//
// [Write] and [Export] encode elements back into the same format, which makes
// files with generated ids stable across runs.
package panels
