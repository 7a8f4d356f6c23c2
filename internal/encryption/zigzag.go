package encryption

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cell is the position of one element in a block.
type Cell struct {
	Row int
	Col int
}

// Every block in a round shares the same size, so the traversal tables are
// computed once per size and kept for the life of the process.
var zigzagCache = gocache.New(gocache.NoExpiration, 10*time.Minute)

// diagonalLen returns the number of cells on anti-diagonal s of an n x n block.
func diagonalLen(n, s int) int {
	if s < n {
		return s + 1
	}
	return 2*n - 1 - s
}

// ZigZagOrder returns the cells of an n x n block in the order they are read
// when the vertically flipped block is walked diagonal by diagonal from the
// bottom-left corner to the top-right one. Each anti-diagonal row+col = s is
// read bottom to top, except when s and n-1 have the same parity, in which
// case it is read top to bottom. The returned slice belongs to the caller.
func ZigZagOrder(n int) []Cell {
	return append([]Cell(nil), zigzagOrder(n)...)
}

// zigzagOrder returns the shared traversal table for n. It must not be
// modified.
func zigzagOrder(n int) []Cell {
	cacheKey := "order:" + strconv.Itoa(n)
	if v, ok := zigzagCache.Get(cacheKey); ok {
		return v.([]Cell)
	}

	order := make([]Cell, 0, n*n)
	for s := 0; s <= 2*(n-1); s++ {
		hi := s
		if hi > n-1 {
			hi = n - 1
		}
		lo := s - hi
		if (s-(n-1))%2 == 0 {
			for row := lo; row <= hi; row++ {
				order = append(order, Cell{Row: row, Col: s - row})
			}
		} else {
			for row := hi; row >= lo; row-- {
				order = append(order, Cell{Row: row, Col: s - row})
			}
		}
	}

	zigzagCache.Set(cacheKey, order, gocache.NoExpiration)
	return order
}

// ZigZagRank returns the position of cell (x, y) when the cells of an n x n
// block are sorted by anti-diagonal x+y, with y ascending along even
// diagonals and descending along odd ones. Coordinates outside the block are
// wrapped back into it.
func ZigZagRank(n, x, y int) int {
	x, y = wrap(x, n), wrap(y, n)
	s := x + y

	rank := 0
	for d := 0; d < s; d++ {
		rank += diagonalLen(n, d)
	}

	lo := s - (n - 1)
	if lo < 0 {
		lo = 0
	}
	hi := s
	if hi > n-1 {
		hi = n - 1
	}
	if s%2 == 0 {
		return rank + y - lo
	}
	return rank + hi - y
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
