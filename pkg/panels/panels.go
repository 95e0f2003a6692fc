package panels

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/partition"
)

// Format identifies a panel file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat infers the encoding of path from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "unrecognized panel file extension %q (want .json, .yaml or .toml)", filepath.Ext(path))
}

// Panel is one entry of a panel file.
type Panel struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

type file struct {
	Panels []Panel `json:"panels" yaml:"panels" toml:"panels"`
}

// Element converts p into the engine's input type.
func (p Panel) Element() partition.Element {
	return partition.Element{ID: p.ID, Rect: geom.R(p.X, p.Y, p.Width, p.Height), Label: p.Label}
}

// FromElement is the inverse of [Panel.Element].
func FromElement(e partition.Element) Panel {
	return Panel{ID: e.ID, X: e.Rect.X, Y: e.Rect.Y, Width: e.Rect.Width, Height: e.Rect.Height, Label: e.Label}
}

// NewID returns a short random panel id.
func NewID() string {
	return uuid.New().String()[:8]
}
