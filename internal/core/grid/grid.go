// Package grid holds the 2-D intensity plane that the scrambler operates on
// along with the machinery for splitting it into square blocks and putting
// it back together.
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlockSize is returned when a block size is zero or negative.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrDimensionMismatch is returned when a grid or a set of blocks does not
	// have the dimensions an operation expects.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Grid is a row-major plane of pixel intensities. Every row has the same length.
type Grid [][]int

// Shape is the layout of a padded grid measured in blocks.
type Shape struct {
	Rows int
	Cols int
}

// New allocates a zeroed grid with the given dimensions.
func New(rows, cols int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]int, cols)
	}
	return g
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns in the grid, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for i, row := range g {
		c[i] = append([]int(nil), row...)
	}
	return c
}

// Validate checks that every row has the same length.
func (g Grid) Validate() error {
	cols := g.Cols()
	for i, row := range g {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), cols)
		}
	}
	return nil
}

// IsSquare reports whether the grid has as many rows as columns.
func (g Grid) IsSquare() bool {
	return g.Validate() == nil && g.Rows() == g.Cols()
}

// Partition zero-pads g on the bottom and right to the next multiple of size
// in both directions and slices it into size x size blocks, ordered left to
// right then top to bottom. The returned Shape is the padded layout in blocks.
func Partition(g Grid, size int) ([]Grid, Shape, error) {
	if size <= 0 {
		return nil, Shape{}, fmt.Errorf("%w: %d", ErrInvalidBlockSize, size)
	}
	if err := g.Validate(); err != nil {
		return nil, Shape{}, err
	}

	shape := Shape{
		Rows: (g.Rows() + size - 1) / size,
		Cols: (g.Cols() + size - 1) / size,
	}
	blocks := make([]Grid, 0, shape.Rows*shape.Cols)
	for br := 0; br < shape.Rows; br++ {
		for bc := 0; bc < shape.Cols; bc++ {
			block := New(size, size)
			for i := 0; i < size; i++ {
				r := br*size + i
				if r >= g.Rows() {
					break
				}
				for j := 0; j < size; j++ {
					c := bc*size + j
					if c >= g.Cols() {
						break
					}
					block[i][j] = g[r][c]
				}
			}
			blocks = append(blocks, block)
		}
	}
	return blocks, shape, nil
}

// Merge reassembles blocks produced by Partition back into a single grid and
// crops it to rows x cols, discarding the padding.
func Merge(blocks []Grid, shape Shape, rows, cols int) (Grid, error) {
	if len(blocks) != shape.Rows*shape.Cols {
		return nil, fmt.Errorf("%w: got %d blocks for a %dx%d layout",
			ErrDimensionMismatch, len(blocks), shape.Rows, shape.Cols)
	}
	if len(blocks) == 0 {
		if rows != 0 || cols != 0 {
			return nil, fmt.Errorf("%w: cannot crop an empty layout to %dx%d", ErrDimensionMismatch, rows, cols)
		}
		return New(0, 0), nil
	}

	size := blocks[0].Rows()
	for i, b := range blocks {
		if !b.IsSquare() || b.Rows() != size {
			return nil, fmt.Errorf("%w: block %d is %dx%d, want %dx%d",
				ErrDimensionMismatch, i, b.Rows(), b.Cols(), size, size)
		}
	}
	if rows < 0 || cols < 0 || rows > shape.Rows*size || cols > shape.Cols*size {
		return nil, fmt.Errorf("%w: cannot crop a %dx%d padded grid to %dx%d",
			ErrDimensionMismatch, shape.Rows*size, shape.Cols*size, rows, cols)
	}

	out := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b := blocks[(r/size)*shape.Cols+c/size]
			out[r][c] = b[r%size][c%size]
		}
	}
	return out, nil
}

// Extent returns how many rows and columns of the block at index idx of a
// layout produced by Partition(g, size) hold values from the original
// rows x cols grid. The rest of the block is padding.
func Extent(idx int, shape Shape, size, rows, cols int) (int, int) {
	br, bc := idx/shape.Cols, idx%shape.Cols
	r := rows - br*size
	if r > size {
		r = size
	}
	c := cols - bc*size
	if c > size {
		c = size
	}
	return r, c
}

// Padded reports whether the block at index idx of a layout produced by
// Partition(g, size) extends past the original rows x cols extent.
func Padded(idx int, shape Shape, size, rows, cols int) bool {
	r, c := Extent(idx, shape, size, rows, cols)
	return r < size || c < size
}
