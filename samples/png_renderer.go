package samples

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const gridCols = 4 // 16 cells laid out 4x4

// PNGGridRenderer writes sample grids as 4x4 grayscale PNG images named by
// zero-padded epoch number, one file per epoch.
type PNGGridRenderer struct {
	dir    string
	minVal float32
	maxVal float32
}

// NewPNGGridRenderer creates (if needed) dir and returns a renderer that
// maps cell values from [minVal, maxVal] onto the 8-bit gray ramp.
func NewPNGGridRenderer(dir string, minVal, maxVal float32) (*PNGGridRenderer, error) {
	if dir == "" {
		return nil, errors.New("samples: renderer directory must not be empty")
	}
	if maxVal <= minVal {
		return nil, errors.Errorf("samples: invalid render range [%g, %g]", minVal, maxVal)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "samples: creating sample directory")
	}
	return &PNGGridRenderer{dir: dir, minVal: minVal, maxVal: maxVal}, nil
}

// GridPath returns the output path for a given epoch tag.
func (r *PNGGridRenderer) GridPath(epoch int) string {
	return filepath.Join(r.dir, fmt.Sprintf("image_at_epoch_%04d.png", epoch))
}

// RenderGrid lays the cells out row-major in a 4x4 grid and writes the PNG.
// All cells must share the shape of the first.
func (r *PNGGridRenderer) RenderGrid(grid *SampleGrid) error {
	if grid == nil || len(grid.Cells) == 0 {
		return errors.New("samples: empty grid")
	}

	cellRows := grid.Cells[0].Rows
	cellCols := grid.Cells[0].Cols
	gridRows := (len(grid.Cells) + gridCols - 1) / gridCols

	img := image.NewGray(image.Rect(0, 0, gridCols*cellCols, gridRows*cellRows))
	span := r.maxVal - r.minVal

	for idx, cell := range grid.Cells {
		if cell.Rows != cellRows || cell.Cols != cellCols {
			return errors.Errorf("samples: cell %d shape [%d, %d] differs from [%d, %d]",
				idx, cell.Rows, cell.Cols, cellRows, cellCols)
		}
		offX := (idx % gridCols) * cellCols
		offY := (idx / gridCols) * cellRows
		for i := 0; i < cellRows; i++ {
			for j := 0; j < cellCols; j++ {
				unit := (cell.At(i, j) - r.minVal) / span
				if unit < 0 {
					unit = 0
				} else if unit > 1 {
					unit = 1
				}
				// Row 0 at the bottom, matching spectrogram orientation.
				img.SetGray(offX+j, offY+cellRows-1-i, color.Gray{Y: uint8(unit * 255)})
			}
		}
	}

	f, err := os.Create(r.GridPath(grid.Epoch))
	if err != nil {
		return errors.Wrap(err, "samples: creating grid image")
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "samples: encoding grid image for epoch %d", grid.Epoch)
	}
	return nil
}
