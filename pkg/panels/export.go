package panels

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/partition"
)

// Write encodes elements as a panel file in format f.
func Write(w io.Writer, f Format, elements []partition.Element) error {
	out := file{Panels: make([]Panel, len(elements))}
	for i, e := range elements {
		out.Panels[i] = FromElement(e)
	}

	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(out)
	default:
		return perrors.New(perrors.ErrCodeUnsupported, "panel format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes elements to path in the format matching its extension.
func Export(elements []partition.Element, path string) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()
	return Write(fh, f, elements)
}
