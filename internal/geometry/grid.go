package geometry

// Grid is a rectangular cell grid with boolean wall occupancy, row-major
// indexed as Walls[y][x]. The zero value is unusable; construct with NewGrid
// or NormalizeWalls so the matrix is always fully rectangular.
type Grid struct {
	Width  int
	Height int
	Walls  [][]bool
}

func NewGrid(width, height int) Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	walls := make([][]bool, height)
	for y := range walls {
		walls[y] = make([]bool, width)
	}
	return Grid{Width: width, Height: height, Walls: walls}
}

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsWall reports whether the cell at (x, y) is a wall. Out-of-bounds cells
// are not walls.
func (g Grid) IsWall(x, y int) bool {
	return g.InBounds(x, y) && g.Walls[y][x]
}

// NormalizeWalls coerces an arbitrary (possibly ragged, oversized, or nil)
// wall matrix into a fully rectangular width×height matrix. Cells outside the
// input are false; ragged or missing rows are zero-filled.
func NormalizeWalls(data [][]bool, width, height int) [][]bool {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	normalized := make([][]bool, height)
	for y := range normalized {
		normalized[y] = make([]bool, width)
		if y >= len(data) || data[y] == nil {
			continue
		}
		row := data[y]
		for x := 0; x < width && x < len(row); x++ {
			normalized[y][x] = row[x]
		}
	}
	return normalized
}

// Resize returns a copy of the grid coerced to the new dimensions, truncating
// or zero-filling walls as needed.
func (g Grid) Resize(width, height int) Grid {
	return Grid{
		Width:  max(width, 1),
		Height: max(height, 1),
		Walls:  NormalizeWalls(g.Walls, width, height),
	}
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	walls := make([][]bool, len(g.Walls))
	for y, row := range g.Walls {
		walls[y] = make([]bool, len(row))
		copy(walls[y], row)
	}
	return Grid{Width: g.Width, Height: g.Height, Walls: walls}
}

// Chebyshev is the chessboard distance between two cells; one king move per
// unit, so light radii form squares on the grid.
func Chebyshev(x0, y0, x1, y1 int) int {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	return max(dx, dy)
}

// IsLOSClear traces an integer Bresenham line from (x0, y0) to (x1, y1) and
// reports whether the path is free of intermediate wall cells. The origin
// never blocks, a cell always has line of sight to itself, and out-of-grid
// endpoints are never visible.
func (g Grid) IsLOSClear(x0, y0, x1, y1 int) bool {
	if !g.InBounds(x0, y0) || !g.InBounds(x1, y1) {
		return false
	}
	if x0 == x1 && y0 == y1 {
		return true
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		if g.Walls[y][x] && (x != x0 || y != y0) {
			return false
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
