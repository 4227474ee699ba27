package protocol

import (
	"encoding/json"
	"testing"
)

func TestValidateSnapshotDocument_AcceptsExportedSnapshot(t *testing.T) {
	snap := Snapshot{
		Tokens: []Token{
			{ID: "t1", Name: "Fighter", Owner: "alice", X: 3, Y: 4, Size: 1, HP: 10, MaxHP: 12},
		},
		Walls:            [][]bool{{false, true}, {false, false}},
		Background:       "maps/cavern.png",
		GridSize:         GridSize{Width: 2, Height: 2},
		GridLinesVisible: true,
		ViewState:        &ViewState{Scale: 1.5, PanX: 10, PanY: -4},
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := ValidateSnapshotDocument(raw); err != nil {
		t.Errorf("Expected exported snapshot to validate, got: %v", err)
	}
}

func TestValidateSnapshotDocument_RejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{tokens:`},
		{"missing grid size", `{"tokens":[],"walls":[]}`},
		{"walls not a matrix", `{"tokens":[],"walls":["xx"],"gridSize":{"width":2,"height":2}}`},
		{"walls of ints", `{"tokens":[],"walls":[[0,1]],"gridSize":{"width":2,"height":1}}`},
		{"zero grid", `{"tokens":[],"walls":[],"gridSize":{"width":0,"height":5}}`},
		{"tokens not array", `{"tokens":{},"walls":[],"gridSize":{"width":2,"height":2}}`},
		{"token hp string", `{"tokens":[{"hp":"full"}],"walls":[],"gridSize":{"width":2,"height":2}}`},
	}
	for _, c := range cases {
		if err := ValidateSnapshotDocument([]byte(c.raw)); err == nil {
			t.Errorf("%s: expected validation error, got nil", c.name)
		}
	}
}

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{ErrUnauthorized, ErrNotFound, ErrInvalidInput, ErrOutOfRange, ErrPersistence, ""} {
		if !IsKnownCode(code) {
			t.Errorf("Expected %q to be a known code", code)
		}
	}
	if IsKnownCode("E_BOGUS") {
		t.Error("Expected unknown code to be rejected")
	}
}
