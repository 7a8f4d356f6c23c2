package encryption

import (
	"fmt"

	"github.com/dcrodman/imgscramble/internal/core/grid"
)

// rotation returns how far the zig-zag sequence of an n x n block is shifted
// for starting cell (x, y). The sequence is made to begin one position before
// the starting cell's rank.
func rotation(n, x, y int) int {
	return ZigZagRank(n, x, y) - 1
}

func checkSquare(block grid.Grid) error {
	if !block.IsSquare() {
		return fmt.Errorf("%w: block is %dx%d, want a square block", ErrDimensionMismatch, block.Rows(), block.Cols())
	}
	return nil
}

// Diffuse reads the block in zig-zag order, rotates the resulting sequence so
// that it starts just before cell (x, y), and writes it back column by column.
func Diffuse(block grid.Grid, x, y int) (grid.Grid, error) {
	if err := checkSquare(block); err != nil {
		return nil, err
	}
	n := block.Rows()
	if n == 0 {
		return grid.New(0, 0), nil
	}

	order := zigzagOrder(n)
	size := n * n
	shift := rotation(n, x, y)

	out := grid.New(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			src := order[wrap(j*n+i+shift, size)]
			out[i][j] = block[src.Row][src.Col]
		}
	}
	return out, nil
}

// Undiffuse is the inverse of Diffuse for the same starting cell.
func Undiffuse(block grid.Grid, x, y int) (grid.Grid, error) {
	if err := checkSquare(block); err != nil {
		return nil, err
	}
	n := block.Rows()
	if n == 0 {
		return grid.New(0, 0), nil
	}

	order := zigzagOrder(n)
	size := n * n
	shift := rotation(n, x, y)

	out := grid.New(n, n)
	for p, dst := range order {
		k := wrap(p-shift, size)
		out[dst.Row][dst.Col] = block[k%n][k/n]
	}
	return out, nil
}
