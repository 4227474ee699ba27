package geometry

import "testing"

func TestNormalizeWalls_RaggedInput(t *testing.T) {
	data := [][]bool{
		{true, true},
		nil,
		{false, true, true, true, true},
	}

	normalized := NormalizeWalls(data, 3, 4)

	if len(normalized) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(normalized))
	}
	for y, row := range normalized {
		if len(row) != 3 {
			t.Fatalf("Expected row %d to have 3 cells, got %d", y, len(row))
		}
	}
	if !normalized[0][0] || !normalized[0][1] || normalized[0][2] {
		t.Errorf("Expected row 0 to be [true true false], got %v", normalized[0])
	}
	if normalized[1][0] || normalized[1][1] || normalized[1][2] {
		t.Errorf("Expected nil row to zero-fill, got %v", normalized[1])
	}
	if normalized[2][0] || !normalized[2][1] || !normalized[2][2] {
		t.Errorf("Expected row 2 to truncate to [false true true], got %v", normalized[2])
	}
	if normalized[3][0] || normalized[3][1] || normalized[3][2] {
		t.Errorf("Expected missing row to zero-fill, got %v", normalized[3])
	}
}

func TestNormalizeWalls_NilInput(t *testing.T) {
	normalized := NormalizeWalls(nil, 2, 2)
	for y := range normalized {
		for x := range normalized[y] {
			if normalized[y][x] {
				t.Errorf("Expected cell (%d,%d) to be false", x, y)
			}
		}
	}
}

func TestGridResize_PreservesOverlap(t *testing.T) {
	g := NewGrid(4, 4)
	g.Walls[1][1] = true
	g.Walls[3][3] = true

	resized := g.Resize(2, 2)

	if resized.Width != 2 || resized.Height != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d", resized.Width, resized.Height)
	}
	if !resized.IsWall(1, 1) {
		t.Error("Expected wall at (1,1) to survive shrink")
	}

	grown := resized.Resize(5, 5)
	if !grown.IsWall(1, 1) {
		t.Error("Expected wall at (1,1) to survive growth")
	}
	if grown.IsWall(3, 3) {
		t.Error("Expected truncated wall at (3,3) to stay gone")
	}
}

func TestChebyshev(t *testing.T) {
	cases := []struct {
		x0, y0, x1, y1 int
		want           int
	}{
		{5, 5, 5, 5, 0},
		{5, 5, 5, 6, 1},
		{5, 5, 6, 6, 1},
		{5, 5, 5, 7, 2},
		{5, 5, 9, 5, 4},
		{5, 5, 2, 9, 4},
	}
	for _, c := range cases {
		got := Chebyshev(c.x0, c.y0, c.x1, c.y1)
		if got != c.want {
			t.Errorf("Chebyshev(%d,%d,%d,%d): expected %d, got %d", c.x0, c.y0, c.x1, c.y1, c.want, got)
		}
	}
}

func TestIsLOSClear_SelfIsAlwaysVisible(t *testing.T) {
	g := NewGrid(10, 10)
	g.Walls[5][5] = true

	if !g.IsLOSClear(5, 5, 5, 5) {
		t.Error("Expected a cell to always have line of sight to itself")
	}
}

func TestIsLOSClear_WallBetweenBlocks(t *testing.T) {
	g := NewGrid(10, 10)

	if !g.IsLOSClear(2, 5, 6, 5) {
		t.Fatal("Expected clear horizontal path to be visible")
	}

	// A single wall exactly between the two points blocks LOS.
	g.Walls[5][4] = true
	if g.IsLOSClear(2, 5, 6, 5) {
		t.Error("Expected intermediate wall to block line of sight")
	}

	// Moving the wall off the direct path restores LOS.
	g.Walls[5][4] = false
	g.Walls[6][4] = true
	if !g.IsLOSClear(2, 5, 6, 5) {
		t.Error("Expected off-path wall to leave line of sight clear")
	}
}

func TestIsLOSClear_OriginWallDoesNotBlock(t *testing.T) {
	g := NewGrid(10, 10)
	g.Walls[5][5] = true

	if !g.IsLOSClear(5, 5, 7, 5) {
		t.Error("Expected origin cell wall to be excluded from blocking")
	}
}

func TestIsLOSClear_TargetWallIsVisible(t *testing.T) {
	g := NewGrid(10, 10)
	g.Walls[5][7] = true

	// The destination cell being a wall does not block sight of it; only
	// intermediate cells obstruct.
	if !g.IsLOSClear(5, 5, 7, 5) {
		t.Error("Expected wall cell itself to be visible at path end")
	}
}

func TestIsLOSClear_OutOfBoundsEndpoints(t *testing.T) {
	g := NewGrid(10, 10)

	if g.IsLOSClear(-1, 0, 5, 5) {
		t.Error("Expected out-of-grid origin to never see anything")
	}
	if g.IsLOSClear(5, 5, 5, 10) {
		t.Error("Expected out-of-grid target to never be visible")
	}
}

func TestIsLOSClear_Diagonal(t *testing.T) {
	g := NewGrid(10, 10)
	if !g.IsLOSClear(0, 0, 9, 9) {
		t.Fatal("Expected open diagonal to be visible")
	}
	g.Walls[4][4] = true
	if g.IsLOSClear(0, 0, 9, 9) {
		t.Error("Expected wall on the diagonal to block line of sight")
	}
}
