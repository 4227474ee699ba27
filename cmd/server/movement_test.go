package main

import (
	"testing"

	"github.com/thorgrid/tabletop-engine/internal/geometry"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

func TestProposeMoveStepsDiagonallyTowardDestination(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	tok := protocol.Token{ID: "t1", X: 0, Y: 0, Size: 1}

	steps := 0
	for {
		_, _, moved := ProposeMove(grid, &tok, 9, 9)
		if !moved {
			break
		}
		steps++
		if steps > 20 {
			t.Fatal("move never converged")
		}
	}

	if tok.X != 9 || tok.Y != 9 {
		t.Errorf("Expected token at (9, 9), got (%d, %d)", tok.X, tok.Y)
	}
	if steps != 9 {
		t.Errorf("Expected 9 diagonal steps, got %d", steps)
	}
}

func TestProposeMoveSingleStepPerCall(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	tok := protocol.Token{ID: "t1", X: 0, Y: 0, Size: 1}

	x, y, moved := ProposeMove(grid, &tok, 9, 0)
	if !moved {
		t.Fatal("Expected a move, got none")
	}
	if x != 1 || y != 0 {
		t.Errorf("Expected single step to (1, 0), got (%d, %d)", x, y)
	}
}

func TestProposeMoveBlockedByWall(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	grid.Walls[0][5] = true
	tok := protocol.Token{ID: "t1", X: 4, Y: 0, Size: 1}

	x, y, moved := ProposeMove(grid, &tok, 9, 0)
	if moved {
		t.Errorf("Expected move into wall to be rejected, token went to (%d, %d)", x, y)
	}
	if tok.X != 4 || tok.Y != 0 {
		t.Errorf("Expected token to stay at (4, 0), got (%d, %d)", tok.X, tok.Y)
	}
}

func TestProposeMoveCannotTunnelThroughWall(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	for y := 0; y < 10; y++ {
		grid.Walls[y][5] = true
	}
	tok := protocol.Token{ID: "t1", X: 4, Y: 4, Size: 1}

	// A far destination past the wall line must never cross it, no matter how
	// many times the client repeats the request.
	for i := 0; i < 20; i++ {
		ProposeMove(grid, &tok, 9, 4)
	}
	if tok.X >= 5 {
		t.Errorf("Expected token to stay west of wall line, got x=%d", tok.X)
	}
}

func TestProposeMoveClampsRequestIntoBounds(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	tok := protocol.Token{ID: "t1", X: 7, Y: 7, Size: 2}

	for {
		_, _, moved := ProposeMove(grid, &tok, 100, 100)
		if !moved {
			break
		}
	}
	if tok.X != 8 || tok.Y != 8 {
		t.Errorf("Expected size-2 token clamped to (8, 8), got (%d, %d)", tok.X, tok.Y)
	}
}

func TestProposeMoveFootprintCollision(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	grid.Walls[3][3] = true
	tok := protocol.Token{ID: "t1", X: 1, Y: 1, Size: 2}

	// Step to (2, 2) would put the footprint over cells (2..3, 2..3), and
	// (3, 3) is a wall.
	x, y, moved := ProposeMove(grid, &tok, 2, 2)
	if moved {
		t.Errorf("Expected footprint collision to reject the move, token went to (%d, %d)", x, y)
	}
}

func TestProposeMoveNoOpAtDestination(t *testing.T) {
	grid := geometry.NewGrid(10, 10)
	tok := protocol.Token{ID: "t1", X: 3, Y: 3, Size: 1}

	_, _, moved := ProposeMove(grid, &tok, 3, 3)
	if moved {
		t.Error("Expected no-op when already at destination")
	}
}

func TestProposeMoveNeverOccupiesWall(t *testing.T) {
	grid := geometry.NewGrid(12, 12)
	for _, cell := range [][2]int{{2, 1}, {4, 3}, {5, 5}, {7, 6}, {8, 8}, {3, 7}} {
		grid.Walls[cell[1]][cell[0]] = true
	}
	tok := protocol.Token{ID: "t1", X: 0, Y: 0, Size: 1}

	destinations := [][2]int{{11, 11}, {0, 11}, {11, 0}, {6, 6}, {0, 0}}
	for _, dest := range destinations {
		for i := 0; i < 30; i++ {
			_, _, moved := ProposeMove(grid, &tok, dest[0], dest[1])
			if footprintBlocked(grid, tok.X, tok.Y, tok.Size) {
				t.Fatalf("Token occupies a wall at (%d, %d)", tok.X, tok.Y)
			}
			if !moved {
				break
			}
		}
	}
}
