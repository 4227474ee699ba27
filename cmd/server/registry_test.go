package main

import (
	"reflect"
	"testing"
)

func TestRegistryLoginAndRoster(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	r.Add("c2")

	if err := r.Login("c1", "zoe", RoleDirector); err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}
	if err := r.Login("c2", "alice", RoleParticipant); err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}

	conn := r.Get("c1")
	if !conn.LoggedIn || conn.Username != "zoe" || conn.Role != RoleDirector {
		t.Errorf("Expected logged-in director zoe, got %+v", conn)
	}

	expected := []string{"alice", "zoe"}
	if got := r.Usernames(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected sorted roster %v, got %v", expected, got)
	}
}

func TestRegistryRejectsDuplicateUsername(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	r.Add("c2")

	if err := r.Login("c1", "alice", RoleParticipant); err != nil {
		t.Fatalf("Expected first login to succeed, got %v", err)
	}
	if err := r.Login("c2", "alice", RoleParticipant); err == nil {
		t.Error("Expected duplicate username to be rejected")
	}
	if r.Get("c2").LoggedIn {
		t.Error("Expected rejected connection to remain anonymous")
	}
}

func TestRegistryRejectsEmptyUsername(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	if err := r.Login("c1", "   ", RoleParticipant); err == nil {
		t.Error("Expected whitespace username to be rejected")
	}
}

func TestRegistryRejectsDoubleLogin(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	if err := r.Login("c1", "alice", RoleParticipant); err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}
	if err := r.Login("c1", "bob", RoleParticipant); err == nil {
		t.Error("Expected second login on same connection to be rejected")
	}
}

func TestRegistryRemoveFreesUsername(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	if err := r.Login("c1", "alice", RoleParticipant); err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}

	r.Remove("c1")

	r.Add("c2")
	if err := r.Login("c2", "alice", RoleParticipant); err != nil {
		t.Errorf("Expected username to be free after disconnect, got %v", err)
	}
}

func TestRegistryDirectorIDs(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("c1")
	r.Add("c2")
	r.Add("c3")
	_ = r.Login("c1", "gm1", RoleDirector)
	_ = r.Login("c2", "alice", RoleParticipant)
	_ = r.Login("c3", "gm2", RoleDirector)

	ids := r.DirectorIDs()
	if len(ids) != 2 {
		t.Fatalf("Expected 2 director ids, got %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["c1"] || !seen["c3"] {
		t.Errorf("Expected c1 and c3, got %v", ids)
	}

	if got := len(r.Connections()); got != 3 {
		t.Errorf("Expected 3 logged-in connections, got %d", got)
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		input    string
		expected Role
		ok       bool
	}{
		{"director", RoleDirector, true},
		{"participant", RoleParticipant, true},
		{"dm", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		role, ok := parseRole(tc.input)
		if ok != tc.ok || role != tc.expected {
			t.Errorf("parseRole(%q): Expected (%v, %v), got (%v, %v)", tc.input, tc.expected, tc.ok, role, ok)
		}
	}
}
