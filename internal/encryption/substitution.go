package encryption

import (
	"github.com/dcrodman/imgscramble/internal/core/grid"
)

// RowReflect replaces every value in a row that is below the row's maximum M
// with M minus that value. Values equal to M are left alone, which means a 0
// becomes M and cannot be recovered by reflecting again; the reflections only
// undo each other on rows without zeros.
func RowReflect(block grid.Grid) grid.Grid {
	return reflectRows(block, block.Rows(), block.Cols())
}

// ColReflect is RowReflect applied to columns.
func ColReflect(block grid.Grid) grid.Grid {
	return reflectCols(block, block.Rows(), block.Cols())
}

// reflectRows reflects only the top-left rows x cols corner of block. Cells
// outside it are padding: they take no part in the maximum and are copied
// through unchanged.
func reflectRows(block grid.Grid, rows, cols int) grid.Grid {
	out := block.Clone()
	if cols == 0 {
		return out
	}
	for _, row := range out[:rows] {
		max := row[0]
		for _, v := range row[1:cols] {
			if v > max {
				max = v
			}
		}
		for j, v := range row[:cols] {
			if v < max {
				row[j] = max - v
			}
		}
	}
	return out
}

// reflectCols is reflectRows applied to columns.
func reflectCols(block grid.Grid, rows, cols int) grid.Grid {
	out := block.Clone()
	if rows == 0 {
		return out
	}
	for j := 0; j < cols; j++ {
		max := out[0][j]
		for i := 1; i < rows; i++ {
			if out[i][j] > max {
				max = out[i][j]
			}
		}
		for i := 0; i < rows; i++ {
			if out[i][j] < max {
				out[i][j] = max - out[i][j]
			}
		}
	}
	return out
}
