package main

import (
	"strings"

	"github.com/google/uuid"

	"github.com/thorgrid/tabletop-engine/internal/geometry"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

// Scene is the single authoritative aggregate: wall grid, token collection,
// and scene-wide flags. It is owned exclusively by the session loop; nothing
// else holds a mutable reference, so no locking is required.
type Scene struct {
	Grid             geometry.Grid
	Tokens           []protocol.Token
	Background       string
	GridLinesVisible bool
	RevealAll        bool
	ViewState        *protocol.ViewState
}

func NewScene(width, height int) *Scene {
	return &Scene{
		Grid:             geometry.NewGrid(width, height),
		Tokens:           []protocol.Token{},
		GridLinesVisible: true,
	}
}

// SceneFromSnapshot rebuilds a scene from a persisted or imported document,
// applying the same per-token normalization as addToken. Grid dimensions are
// clamped into [minSize, maxSize] and the wall matrix renormalized to match.
func SceneFromSnapshot(snap protocol.Snapshot, minSize, maxSize int) *Scene {
	width := clamp(snap.GridSize.Width, minSize, maxSize)
	height := clamp(snap.GridSize.Height, minSize, maxSize)

	scene := &Scene{
		Grid: geometry.Grid{
			Width:  width,
			Height: height,
			Walls:  geometry.NormalizeWalls(snap.Walls, width, height),
		},
		Tokens:           make([]protocol.Token, 0, len(snap.Tokens)),
		Background:       snap.Background,
		GridLinesVisible: snap.GridLinesVisible,
		RevealAll:        snap.RevealAll,
		ViewState:        snap.ViewState,
	}
	for _, tok := range snap.Tokens {
		if tok.ID == "" {
			tok.ID = uuid.NewString()
		}
		normalizeToken(&tok, scene.Grid)
		scene.Tokens = append(scene.Tokens, tok)
	}
	return scene
}

// Snapshot exports a deep copy of the scene; the caller may hold it across
// loop iterations without observing later mutations.
func (s *Scene) Snapshot() protocol.Snapshot {
	tokens := make([]protocol.Token, len(s.Tokens))
	copy(tokens, s.Tokens)

	grid := s.Grid.Clone()

	var view *protocol.ViewState
	if s.ViewState != nil {
		v := *s.ViewState
		view = &v
	}
	return protocol.Snapshot{
		Tokens:           tokens,
		Walls:            grid.Walls,
		Background:       s.Background,
		GridSize:         protocol.GridSize{Width: s.Grid.Width, Height: s.Grid.Height},
		GridLinesVisible: s.GridLinesVisible,
		RevealAll:        s.RevealAll,
		ViewState:        view,
	}
}

func (s *Scene) TokenByID(id string) *protocol.Token {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			return &s.Tokens[i]
		}
	}
	return nil
}

func (s *Scene) RemoveToken(id string) bool {
	for i := range s.Tokens {
		if s.Tokens[i].ID == id {
			s.Tokens = append(s.Tokens[:i], s.Tokens[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties tokens, walls, and background and resets flags to defaults,
// keeping the current grid dimensions.
func (s *Scene) Clear() {
	s.Tokens = []protocol.Token{}
	s.Grid = geometry.NewGrid(s.Grid.Width, s.Grid.Height)
	s.Background = ""
	s.GridLinesVisible = true
	s.RevealAll = false
	s.ViewState = nil
}

// SpawnPosition picks where a new token appears: at the marker token named
// "Start" (participants) or "Exit" (directors) when one exists, else the
// grid center. The result is pre-clamp; normalizeToken bounds it.
func (s *Scene) SpawnPosition(role Role) (int, int) {
	marker := "start"
	if role == RoleDirector {
		marker = "exit"
	}
	for i := range s.Tokens {
		if strings.EqualFold(s.Tokens[i].Name, marker) {
			return s.Tokens[i].X, s.Tokens[i].Y
		}
	}
	return s.Grid.Width / 2, s.Grid.Height / 2
}

// NewToken constructs a fully normalized token from a client spec. Identity
// and ownership are server-assigned.
func (s *Scene) NewToken(spec protocol.TokenSpec, owner string, role Role) protocol.Token {
	x, y := s.SpawnPosition(role)
	tok := protocol.Token{
		ID:            uuid.NewString(),
		Name:          spec.Name,
		Owner:         owner,
		IsMinion:      spec.IsMinion,
		X:             x,
		Y:             y,
		Size:          spec.Size,
		Rotation:      spec.Rotation,
		MaxHP:         spec.MaxHP,
		HP:            spec.HP,
		AC:            spec.AC,
		Initiative:    spec.Initiative,
		SightRadius:   spec.SightRadius,
		IsLightSource: spec.IsLightSource,
		BrightRange:   spec.BrightRange,
		DimRange:      spec.DimRange,
		ImageRef:      spec.ImageRef,
		Color:         spec.Color,
	}
	if tok.IsMinion {
		tok.ParentOwner = owner
	}
	normalizeToken(&tok, s.Grid)
	s.Tokens = append(s.Tokens, tok)
	return tok
}

// normalizeToken defaults and clamps every mutable field; applied exactly
// once at construction so reads never re-validate.
func normalizeToken(t *protocol.Token, grid geometry.Grid) {
	if t.Name == "" {
		t.Name = "Unnamed Token"
	}
	if t.Size < 1 {
		t.Size = 1
	}
	if t.Size > grid.Width {
		t.Size = grid.Width
	}
	if t.Size > grid.Height {
		t.Size = grid.Height
	}
	t.Rotation = normalizeRotation(t.Rotation)
	t.MaxHP = max(t.MaxHP, 0)
	t.HP = max(t.HP, 0)
	t.AC = max(t.AC, 0)
	t.Initiative = max(t.Initiative, 0)
	t.SightRadius = max(t.SightRadius, 0)
	t.BrightRange = max(t.BrightRange, 0)
	t.DimRange = max(t.DimRange, 0)
	if !t.IsLightSource {
		t.BrightRange = 0
		t.DimRange = 0
	}
	// Dim light can never end short of bright light.
	if t.DimRange < t.BrightRange {
		t.DimRange = t.BrightRange
	}
	if t.ImageRef == "" && t.Color == "" {
		t.Color = "grey"
	}
	t.X = clamp(t.X, 0, grid.Width-t.Size)
	t.Y = clamp(t.Y, 0, grid.Height-t.Size)
	if !t.IsMinion {
		t.ParentOwner = ""
	}
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ownsToken reports whether username controls the token, either directly or
// as the minion's parent owner.
func ownsToken(t *protocol.Token, username string) bool {
	if username == "" {
		return false
	}
	if t.Owner == username {
		return true
	}
	return t.IsMinion && t.ParentOwner == username
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
