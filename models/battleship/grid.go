package battleship

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// Every grid of a match shares the same 10x10 coordinate space.
const GridSize = 10

// Block identifies one cell. X is the column and Y the row, both 0-indexed.
type Block struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

func NewBlock(x, y uint8) Block {
	return Block{X: x, Y: y}
}

func (b Block) InBounds() bool {
	return b.X < GridSize && b.Y < GridSize
}

// An out of range block reaching a grid means the input layer is broken,
// not that the player made a mistake.
func mustBeInBounds(b Block) {
	if !b.InBounds() {
		panic(cerr.ErrXorYOutOfGridBound(int(b.X), int(b.Y)))
	}
}

// Grid is a fixed size matrix used for shot tracking, the placement scratch
// mask and ship occupancy. The zero value is an empty grid.
type Grid[T any] struct {
	cells [GridSize][GridSize]T
}

func (g *Grid[T]) Get(b Block) T {
	mustBeInBounds(b)
	return g.cells[b.Y][b.X]
}

func (g *Grid[T]) Set(b Block, v T) {
	mustBeInBounds(b)
	g.cells[b.Y][b.X] = v
}

// Lookup reads a cell by signed coordinates. Probes that fall outside the
// board report false instead of panicking.
func (g *Grid[T]) Lookup(x, y int) (T, bool) {
	if x < 0 || y < 0 || x >= GridSize || y >= GridSize {
		var zero T
		return zero, false
	}
	return g.cells[y][x], true
}

func (g *Grid[T]) Reset() {
	*g = Grid[T]{}
}

// Each visits the cells in row-major order.
func (g *Grid[T]) Each(fn func(b Block, v T)) {
	for y := uint8(0); y < GridSize; y++ {
		for x := uint8(0); x < GridSize; x++ {
			fn(Block{X: x, Y: y}, g.cells[y][x])
		}
	}
}

// Render draws the grid as a table with column and row numbers.
func (g *Grid[T]) Render(glyph func(T) string) string {
	var buffer bytes.Buffer
	tabWriter := tabwriter.NewWriter(&buffer, 3, 0, 1, ' ', 0)

	fmt.Fprint(tabWriter, "\t")
	for column := 0; column < GridSize; column++ {
		fmt.Fprint(tabWriter, strconv.Itoa(column)+"\t")
	}
	fmt.Fprint(tabWriter, "\n")

	for row := 0; row < GridSize; row++ {
		fmt.Fprint(tabWriter, strconv.Itoa(row)+"\t")
		for column := 0; column < GridSize; column++ {
			fmt.Fprint(tabWriter, glyph(g.cells[row][column])+"\t")
		}
		fmt.Fprint(tabWriter, "\n")
	}
	tabWriter.Flush()
	return buffer.String()
}

// Count returns how many cells hold v.
func Count[T comparable](g *Grid[T], v T) int {
	n := 0
	g.Each(func(_ Block, cell T) {
		if cell == v {
			n++
		}
	})
	return n
}

// MarkGlyph is the Render glyph used for boolean grids.
func MarkGlyph(marked bool) string {
	if marked {
		return "X"
	}
	return "~"
}
