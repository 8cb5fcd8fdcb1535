package cli

import (
	"context"

	"github.com/spf13/cobra"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/world"
)

// viewFlags adjust the drawing area and edge length for one command run,
// on top of the config file.
type viewFlags struct {
	width    float64
	height   float64
	distance float64
	scale    float64
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&v.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&v.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().Float64Var(&v.distance, "distance", 0, "preferred connection length (default from config)")
	cmd.Flags().Float64Var(&v.scale, "scale", 0, "drawing scale (default from config)")
}

func (v *viewFlags) validate() error {
	if v.width < 0 || v.height < 0 || v.distance < 0 || v.scale < 0 {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "width, height, distance and scale must be positive")
	}
	return nil
}

// apply pushes the set flags into w. Scale only takes effect on the next
// layout, so a scale change alone forces one.
func (v *viewFlags) apply(ctx context.Context, w *world.World) {
	if v.scale > 0 {
		w.SetScale(v.scale)
		if v.width == 0 && v.height == 0 && v.distance == 0 {
			w.SortAll(ctx)
		}
	}
	if v.width > 0 || v.height > 0 {
		vp := w.Viewport()
		if v.width > 0 {
			vp.Width = v.width
		}
		if v.height > 0 {
			vp.Height = v.height
		}
		w.Resize(ctx, vp.Width, vp.Height)
	}
	if v.distance > 0 {
		w.SetDistance(ctx, v.distance)
	}
}
