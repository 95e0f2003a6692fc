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

// Read decodes a panel list from r in format f, assigns ids to anonymous
// panels and validates the result. Read does not close r.
func Read(r io.Reader, f Format) ([]partition.Element, error) {
	var data file
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&data)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&data)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&data)
	default:
		return nil, perrors.New(perrors.ErrCodeUnsupported, "panel format %q", f)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode %s panels", f)
	}

	elements := make([]partition.Element, len(data.Panels))
	for i, p := range data.Panels {
		if p.ID == "" {
			p.ID = NewID()
		}
		elements[i] = p.Element()
	}
	if err := Validate(elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// Import reads the panel file at path, choosing the format from its
// extension.
func Import(path string) ([]partition.Element, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	elements, err := Read(fh, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return elements, nil
}
