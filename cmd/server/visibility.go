package main

import (
	"github.com/thorgrid/tabletop-engine/internal/geometry"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

// FogClass is the per-cell fog-of-war classification for one viewer.
type FogClass uint8

const (
	FogOpaque FogClass = iota
	FogDim
	FogVisible
)

// FogMap holds a viewer's classification for every grid cell, row-major.
type FogMap struct {
	Width  int
	Height int
	Cells  []FogClass
}

func newFogMap(width, height int, fill FogClass) *FogMap {
	cells := make([]FogClass, width*height)
	if fill != FogOpaque {
		for i := range cells {
			cells[i] = fill
		}
	}
	return &FogMap{Width: width, Height: height, Cells: cells}
}

// At returns the classification at (x, y); out-of-grid cells are opaque.
func (f *FogMap) At(x, y int) FogClass {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return FogOpaque
	}
	return f.Cells[y*f.Width+x]
}

func (f *FogMap) set(x, y int, c FogClass) {
	f.Cells[y*f.Width+x] = c
}

// raise upgrades a cell's classification, never downgrades it.
func (f *FogMap) raise(x, y int, c FogClass) {
	i := y*f.Width + x
	if f.Cells[i] < c {
		f.Cells[i] = c
	}
}

// ComputeViewerFog derives the layered fog-of-war classification for one
// viewer. Directors and revealAll short-circuit to a fully visible map.
// Otherwise, in precedence order: light sources anywhere on the scene cast
// bright and dim light through line of sight; the viewer's own non-light
// tokens contribute inherent vision as dim; cells under the viewer's own
// tokens are always fully visible; and wall cells adjacent to any knowable
// floor cell are revealed so a viewer can see the walls bounding a lit area
// without seeing through them.
func ComputeViewerFog(scene *Scene, role Role, username string, feetPerCell int) *FogMap {
	grid := scene.Grid
	if role == RoleDirector || scene.RevealAll {
		return newFogMap(grid.Width, grid.Height, FogVisible)
	}

	fog := newFogMap(grid.Width, grid.Height, FogOpaque)

	// Light is communal: every light source on the scene counts, not just
	// the viewer's own torches.
	for i := range scene.Tokens {
		src := &scene.Tokens[i]
		if !src.IsLightSource || (src.BrightRange <= 0 && src.DimRange <= 0) {
			continue
		}
		castLight(fog, grid, src)
	}

	// Inherent vision only comes from the viewer's own tokens, and a light
	// source token sees by its light, not by inborn sight.
	for i := range scene.Tokens {
		tok := &scene.Tokens[i]
		if !ownsToken(tok, username) || tok.IsLightSource {
			continue
		}
		radius := tok.SightRadius / feetPerCell
		if radius <= 0 {
			continue
		}
		castVision(fog, grid, tok, radius)
	}

	// A participant must always see the squares their own tokens stand on.
	for i := range scene.Tokens {
		tok := &scene.Tokens[i]
		if !ownsToken(tok, username) {
			continue
		}
		for dy := 0; dy < tok.Size; dy++ {
			for dx := 0; dx < tok.Size; dx++ {
				x, y := tok.X+dx, tok.Y+dy
				if grid.InBounds(x, y) {
					fog.set(x, y, FogVisible)
				}
			}
		}
	}

	revealAdjacentWalls(fog, grid)
	return fog
}

// castLight classifies every LOS-clear cell within the source's dim range as
// bright (within bright range) or dim. Bright overrides dim.
func castLight(fog *FogMap, grid geometry.Grid, src *protocol.Token) {
	bright := src.BrightRange
	dim := max(src.DimRange, bright)
	sx, sy := src.X, src.Y

	for y := max(0, sy-dim); y <= min(grid.Height-1, sy+dim); y++ {
		for x := max(0, sx-dim); x <= min(grid.Width-1, sx+dim); x++ {
			dist := geometry.Chebyshev(sx, sy, x, y)
			if dist > dim {
				continue
			}
			if !grid.IsLOSClear(sx, sy, x, y) {
				continue
			}
			if dist <= bright {
				fog.raise(x, y, FogVisible)
			} else {
				fog.raise(x, y, FogDim)
			}
		}
	}
}

// castVision folds inherent sight into the dim layer; inborn vision never
// grants bright classification.
func castVision(fog *FogMap, grid geometry.Grid, tok *protocol.Token, radius int) {
	px, py := tok.X, tok.Y
	for y := max(0, py-radius); y <= min(grid.Height-1, py+radius); y++ {
		for x := max(0, px-radius); x <= min(grid.Width-1, px+radius); x++ {
			if geometry.Chebyshev(px, py, x, y) > radius {
				continue
			}
			if !grid.IsLOSClear(px, py, x, y) {
				continue
			}
			fog.raise(x, y, FogDim)
		}
	}
}

// revealAdjacentWalls lifts fog on wall cells that border a knowable floor
// cell in any of the eight directions.
func revealAdjacentWalls(fog *FogMap, grid geometry.Grid) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if !grid.Walls[y][x] || fog.At(x, y) == FogVisible {
				continue
			}
			if wallBordersKnowableFloor(fog, grid, x, y) {
				fog.set(x, y, FogVisible)
			}
		}
	}
}

func wallBordersKnowableFloor(fog *FogMap, grid geometry.Grid, wx, wy int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := wx+dx, wy+dy
			if !grid.InBounds(nx, ny) || grid.Walls[ny][nx] {
				continue
			}
			if fog.At(nx, ny) != FogOpaque {
				return true
			}
		}
	}
	return false
}

// TokenKnowable reports whether any cell of the token's footprint is visible
// or dim for the viewer's fog map; unknowable tokens are neither rendered
// nor interactable for that viewer.
func TokenKnowable(fog *FogMap, tok *protocol.Token) bool {
	for dy := 0; dy < tok.Size; dy++ {
		for dx := 0; dx < tok.Size; dx++ {
			if fog.At(tok.X+dx, tok.Y+dy) != FogOpaque {
				return true
			}
		}
	}
	return false
}

// wireFog flattens a fog map for the visibilityUpdate event.
func wireFog(fog *FogMap) protocol.VisibilityUpdate {
	cells := make([]int, len(fog.Cells))
	for i, c := range fog.Cells {
		cells[i] = int(c)
	}
	return protocol.VisibilityUpdate{Width: fog.Width, Height: fog.Height, Cells: cells}
}
