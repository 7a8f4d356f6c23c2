package encryption

import (
	"fmt"
	"sync"

	"github.com/dcrodman/imgscramble/internal/core/grid"
)

// blockFunc transforms one block. rows and cols give the part of the block
// that holds image data; anything beyond them is padding.
type blockFunc func(block grid.Grid, rows, cols int) (grid.Grid, error)

// Internal representation of one round of a transform, capable of scrambling
// and unscrambling the blocks of a single partition.
type blockTransform interface {
	encrypt(block grid.Grid, rows, cols int) (grid.Grid, error)
	decrypt(block grid.Grid, rows, cols int) (grid.Grid, error)
	blockSize() int
	// skipPadded reports whether blocks overlapping the padding are passed
	// through unchanged.
	skipPadded() bool
}

type diffusionRound struct {
	DiffusionRound
}

func (r diffusionRound) encrypt(block grid.Grid, _, _ int) (grid.Grid, error) {
	return Diffuse(block, r.X, r.Y)
}

func (r diffusionRound) decrypt(block grid.Grid, _, _ int) (grid.Grid, error) {
	return Undiffuse(block, r.X, r.Y)
}

func (r diffusionRound) blockSize() int { return r.BlockSize }

// Diffusion moves cells around the whole block, so anything it pushed into
// the padding would be lost when the grid is cropped.
func (r diffusionRound) skipPadded() bool { return true }

type substitutionRound struct {
	SubstitutionRound
}

func (r substitutionRound) encrypt(block grid.Grid, rows, cols int) (grid.Grid, error) {
	return reflectCols(reflectRows(block, rows, cols), rows, cols), nil
}

func (r substitutionRound) decrypt(block grid.Grid, rows, cols int) (grid.Grid, error) {
	return reflectRows(reflectCols(block, rows, cols), rows, cols), nil
}

func (r substitutionRound) blockSize() int { return r.BlockSize }

func (r substitutionRound) skipPadded() bool { return false }

// roundStats counts the blocks a round visited.
type roundStats struct {
	Total   int
	Skipped int
}

// Transformed is the number of blocks that went through the transform.
func (s roundStats) Transformed() int { return s.Total - s.Skipped }

// applyRound partitions g with the round's block size, runs fn over every
// block on up to workers goroutines and merges the result back into a grid of
// the original dimensions. g itself is never modified.
func applyRound(g grid.Grid, t blockTransform, workers int, fn blockFunc) (grid.Grid, roundStats, error) {
	size := t.blockSize()
	blocks, shape, err := grid.Partition(g, size)
	if err != nil {
		return nil, roundStats{}, err
	}
	rows, cols := g.Rows(), g.Cols()

	if workers < 1 {
		workers = 1
	}
	if workers > len(blocks) {
		workers = len(blocks)
	}

	results := make([]grid.Grid, len(blocks))
	errs := make([]error, len(blocks))
	skipped := make([]bool, len(blocks))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if t.skipPadded() && grid.Padded(i, shape, size, rows, cols) {
					results[i], skipped[i] = blocks[i], true
					continue
				}
				r, c := grid.Extent(i, shape, size, rows, cols)
				results[i], errs[i] = fn(blocks[i], r, c)
			}
		}()
	}
	for i := range blocks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	stats := roundStats{Total: len(blocks)}
	for i, err := range errs {
		if err != nil {
			return nil, roundStats{}, fmt.Errorf("block %d: %w", i, err)
		}
		if skipped[i] {
			stats.Skipped++
		}
	}
	out, err := grid.Merge(results, shape, rows, cols)
	return out, stats, err
}
