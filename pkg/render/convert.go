package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/panetree/pkg/errors"
)

// rasterizer is the librsvg command line tool PNG output shells out to.
const rasterizer = "rsvg-convert"

// ErrNoRasterizer is returned by [ToPNG] when rsvg-convert is not on PATH.
// Install it with "brew install librsvg" or "apt install librsvg2-bin".
var ErrNoRasterizer = errors.New("png output needs " + rasterizer + " from librsvg")

// ToPNG rasterizes a layout SVG at scale times its viewport size. The
// conversion is killed when ctx is cancelled.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "png scale must be positive, got %g", scale)
	}
	path, err := exec.LookPath(rasterizer)
	if err != nil {
		return nil, ErrNoRasterizer
	}

	cmd := exec.CommandContext(ctx, path, "--format", "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", rasterizer, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
