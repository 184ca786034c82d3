package battleship

// The touch screen draws the board as 25px blocks. Display block 0 holds the
// row and column labels, so the playable blocks are 1..10 on screen.
const (
	touchBlockPixels  = 25
	touchBoardMinEdge = 24
	touchBoardMaxEdge = touchBlockPixels*(GridSize+1) - 3
)

// BlockFromTouch maps a raw touch position to a board block. It is the only
// place where the 1-indexed display blocks are translated. Touches outside
// the board return false.
func BlockFromTouch(px, py uint16) (Block, bool) {
	if px <= touchBoardMinEdge || px > touchBoardMaxEdge || py <= touchBoardMinEdge || py > touchBoardMaxEdge {
		return Block{}, false
	}
	return Block{
		X: uint8(px/touchBlockPixels) - 1,
		Y: uint8(py/touchBlockPixels) - 1,
	}, true
}
