package main

import (
	"github.com/thorgrid/tabletop-engine/internal/geometry"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

// ProposeMove advances a token at most one cell toward the requested
// destination. The step is the sign of the remaining delta on each axis,
// clamped into bounds for the token's footprint; if any cell the footprint
// would occupy at the candidate is a wall, the move is rejected and the token
// stays put. Because each call commits at most one cell, a client cannot
// tunnel a token through a wall no matter how far the requested coordinates
// jump; sustained drag input reaches distant destinations over several calls.
//
// Returns the resulting position and whether the token actually moved. A
// blocked or no-op outcome is not an error.
func ProposeMove(grid geometry.Grid, tok *protocol.Token, requestedX, requestedY int) (int, int, bool) {
	maxX := grid.Width - tok.Size
	maxY := grid.Height - tok.Size
	targetX := clamp(requestedX, 0, maxX)
	targetY := clamp(requestedY, 0, maxY)

	stepX := tok.X + sign(targetX-tok.X)
	stepY := tok.Y + sign(targetY-tok.Y)
	stepX = clamp(stepX, 0, maxX)
	stepY = clamp(stepY, 0, maxY)

	if stepX == tok.X && stepY == tok.Y {
		return tok.X, tok.Y, false
	}
	if footprintBlocked(grid, stepX, stepY, tok.Size) {
		return tok.X, tok.Y, false
	}
	tok.X = stepX
	tok.Y = stepY
	return stepX, stepY, true
}

// footprintBlocked reports whether any cell of a size×size footprint at
// (x, y) is a wall. Bounds are the caller's responsibility.
func footprintBlocked(grid geometry.Grid, x, y, size int) bool {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if grid.IsWall(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
