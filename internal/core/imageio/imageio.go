// Package imageio converts between image files and the single-channel grids
// the scrambler works on.
package imageio

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/dcrodman/imgscramble/internal/core/grid"
)

// Decode reads an image in any registered format and returns its luminance
// as a grid of values in [0, 255].
func Decode(r io.Reader) (grid.Grid, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode image")
	}
	return FromImage(img), nil
}

// FromImage converts img to gray and copies its pixels into a grid.
func FromImage(img image.Image) grid.Grid {
	b := img.Bounds()
	g := grid.New(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			g[y-b.Min.Y][x-b.Min.X] = int(gray.Y)
		}
	}
	return g
}

// ToImage builds an 8-bit gray image from g, clamping values to [0, 255].
func ToImage(g grid.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols(), g.Rows()))
	for y, row := range g {
		for x, v := range row {
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return img
}

// Encode writes g to w as a PNG.
func Encode(w io.Writer, g grid.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, ToImage(g)), "unable to encode png")
}

// Load decodes the image file at path.
func Load(path string) (grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open "+path)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return g, nil
}

// Save writes g to path as a PNG, replacing any existing file.
func Save(path string, g grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create "+path)
	}

	if err := Encode(f, g); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return errors.Wrap(f.Close(), "unable to close "+path)
}
