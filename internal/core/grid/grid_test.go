package grid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sequential(rows, cols int) Grid {
	g := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g[r][c] = r*cols + c
		}
	}
	return g
}

func TestPartition(t *testing.T) {
	g := sequential(3, 5)

	blocks, shape, err := Partition(g, 2)
	if err != nil {
		t.Fatalf("Partition() unexpected error: %v", err)
	}
	if want := (Shape{Rows: 2, Cols: 3}); shape != want {
		t.Fatalf("Partition() shape = %+v, want %+v", shape, want)
	}

	want := []Grid{
		{{0, 1}, {5, 6}},
		{{2, 3}, {7, 8}},
		{{4, 0}, {9, 0}},
		{{10, 11}, {0, 0}},
		{{12, 13}, {0, 0}},
		{{14, 0}, {0, 0}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("Partition() produced the wrong blocks; diff:\n%s", diff)
	}
}

func TestPartition_InvalidBlockSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if _, _, err := Partition(sequential(4, 4), size); !errors.Is(err, ErrInvalidBlockSize) {
			t.Errorf("Partition(size=%d) err = %v, want ErrInvalidBlockSize", size, err)
		}
	}
}

func TestPartition_Ragged(t *testing.T) {
	g := Grid{{1, 2, 3}, {4, 5}}
	if _, _, err := Partition(g, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Partition() err = %v, want ErrDimensionMismatch", err)
	}
}

func TestPartitionMerge(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		size       int
	}{
		{name: "exact square", rows: 8, cols: 8, size: 4},
		{name: "exact wide", rows: 6, cols: 12, size: 3},
		{name: "exact tall", rows: 10, cols: 5, size: 5},
		{name: "padded both", rows: 7, cols: 9, size: 4},
		{name: "block larger than grid", rows: 4, cols: 3, size: 22},
		{name: "single pixel blocks", rows: 3, cols: 2, size: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sequential(tt.rows, tt.cols)
			blocks, shape, err := Partition(g, tt.size)
			if err != nil {
				t.Fatalf("Partition() unexpected error: %v", err)
			}
			got, err := Merge(blocks, shape, tt.rows, tt.cols)
			if err != nil {
				t.Fatalf("Merge() unexpected error: %v", err)
			}
			if diff := cmp.Diff(g, got); diff != "" {
				t.Errorf("Merge(Partition()) did not restore the grid; diff:\n%s", diff)
			}
		})
	}
}

func TestPartition_ZeroPadding(t *testing.T) {
	g := sequential(5, 3)
	blocks, shape, err := Partition(g, 4)
	if err != nil {
		t.Fatalf("Partition() unexpected error: %v", err)
	}

	padded, err := Merge(blocks, shape, shape.Rows*4, shape.Cols*4)
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	if padded.Rows() != 8 || padded.Cols() != 4 {
		t.Fatalf("padded grid is %dx%d, want 8x4", padded.Rows(), padded.Cols())
	}
	for r := 0; r < padded.Rows(); r++ {
		for c := 0; c < padded.Cols(); c++ {
			if r < 5 && c < 3 {
				if padded[r][c] != g[r][c] {
					t.Errorf("padded[%d][%d] = %d, want %d", r, c, padded[r][c], g[r][c])
				}
			} else if padded[r][c] != 0 {
				t.Errorf("padding cell [%d][%d] = %d, want 0", r, c, padded[r][c])
			}
		}
	}
}

func TestMerge_DimensionMismatch(t *testing.T) {
	blocks, shape, err := Partition(sequential(4, 4), 2)
	if err != nil {
		t.Fatalf("Partition() unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		blocks     []Grid
		shape      Shape
		rows, cols int
	}{
		{name: "too few blocks", blocks: blocks[:3], shape: shape, rows: 4, cols: 4},
		{name: "crop larger than layout", blocks: blocks, shape: shape, rows: 5, cols: 4},
		{name: "non-square block", blocks: append([]Grid{{{1, 2}}}, blocks[1:]...), shape: shape, rows: 4, cols: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Merge(tt.blocks, tt.shape, tt.rows, tt.cols); !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("Merge() err = %v, want ErrDimensionMismatch", err)
			}
		})
	}
}

func TestPadded(t *testing.T) {
	_, shape, _ := Partition(sequential(5, 4), 2)
	var got []bool
	for i := 0; i < shape.Rows*shape.Cols; i++ {
		got = append(got, Padded(i, shape, 2, 5, 4))
	}
	want := []bool{false, false, false, false, true, true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Padded() mismatch; diff:\n%s", diff)
	}
}

func TestExtent(t *testing.T) {
	_, shape, _ := Partition(sequential(5, 7), 3)
	var got [][2]int
	for i := 0; i < shape.Rows*shape.Cols; i++ {
		r, c := Extent(i, shape, 3, 5, 7)
		got = append(got, [2]int{r, c})
	}
	want := [][2]int{
		{3, 3}, {3, 3}, {3, 1},
		{2, 3}, {2, 3}, {2, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extent() mismatch; diff:\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	g := sequential(2, 2)
	c := g.Clone()
	c[0][0] = 99
	if g[0][0] != 0 {
		t.Errorf("Clone() aliases the source grid")
	}
}
