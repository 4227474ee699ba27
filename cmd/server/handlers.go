package main

import (
	"encoding/json"

	"github.com/thorgrid/tabletop-engine/internal/geometry"
	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

// handleIntent decodes one intent frame and routes it. Login is the only
// intent an anonymous connection may send; everything else requires a
// logged-in identity. Handler errors become error events on the origin
// connection and never touch other clients.
func (s *Session) handleIntent(connID string, data []byte) {
	var env protocol.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.sendError(connID, errInvalidInput("malformed intent frame"))
		return
	}

	conn := s.registry.Get(connID)
	if conn == nil {
		return
	}

	if env.Type == protocol.IntentLogin {
		if err := s.handleLogin(conn, env.Payload); err != nil {
			s.sendError(connID, err)
		}
		return
	}
	if !conn.LoggedIn {
		s.sendError(connID, errUnauthorized("login required"))
		return
	}

	var err error
	switch env.Type {
	case protocol.IntentAddToken:
		err = s.handleAddToken(conn, env.Payload)
	case protocol.IntentMoveToken:
		err = s.handleMoveToken(conn, env.Payload)
	case protocol.IntentRemoveToken:
		err = s.handleRemoveToken(conn, env.Payload)
	case protocol.IntentUpdateTokenStats:
		err = s.handleUpdateTokenStats(conn, env.Payload)
	case protocol.IntentUpdateWalls:
		err = s.handleUpdateWalls(conn, env.Payload)
	case protocol.IntentUpdateGridVisibility:
		err = s.handleUpdateGridVisibility(conn, env.Payload)
	case protocol.IntentUpdateBackground:
		err = s.handleUpdateBackground(conn, env.Payload)
	case protocol.IntentUpdateGridSize:
		err = s.handleUpdateGridSize(conn, env.Payload)
	case protocol.IntentToggleRevealAll:
		err = s.handleToggleRevealAll(conn, env.Payload)
	case protocol.IntentSaveState:
		err = s.handleSaveState(conn)
	case protocol.IntentImportState:
		err = s.handleImportState(conn, env.Payload)
	case protocol.IntentClearBoard:
		err = s.handleClearBoard(conn)
	case protocol.IntentRollDice:
		err = s.handleRollDice(conn, env.Payload)
	case protocol.IntentApplyDamage:
		err = s.handleApplyDamage(conn, env.Payload)
	case protocol.IntentApplySpecificDamage:
		err = s.handleApplySpecificDamage(conn, env.Payload)
	case protocol.IntentRequestVisibility:
		err = s.handleRequestVisibility(conn)
	default:
		err = errInvalidInput("unknown intent type %q", env.Type)
	}
	if err != nil {
		s.log.Debugw("intent rejected", "conn", connID, "type", env.Type, "error", err)
		s.sendError(connID, err)
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return errInvalidInput("malformed payload: %v", err)
	}
	return nil
}

func (s *Session) requireDirector(conn *Connection) error {
	if conn.Role != RoleDirector {
		return errUnauthorized("director role required")
	}
	return nil
}

func (s *Session) broadcastTokens() {
	s.broadcastEvent(protocol.EventTokensUpdated, protocol.TokensUpdated{Tokens: s.scene.Tokens})
}

func (s *Session) handleLogin(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestLogin
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	role, ok := parseRole(req.Role)
	if !ok {
		return errInvalidInput("unknown role %q", req.Role)
	}
	if err := s.registry.Login(conn.ID, req.Username, role); err != nil {
		return err
	}
	s.log.Infow("login", "conn", conn.ID, "username", conn.Username, "role", conn.Role)
	s.sendEvent(conn.ID, protocol.EventInit, protocol.Init{
		Snapshot: s.scene.Snapshot(),
		Role:     string(conn.Role),
		Username: conn.Username,
	})
	s.broadcastEvent(protocol.EventClients, protocol.Clients{Usernames: s.registry.Usernames()})
	return nil
}

func (s *Session) handleAddToken(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestAddToken
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	tok := s.scene.NewToken(req.Spec, conn.Username, conn.Role)
	s.log.Infow("token added", "id", tok.ID, "name", tok.Name, "owner", tok.Owner)
	s.broadcastTokens()
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleMoveToken(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestMoveToken
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	tok := s.scene.TokenByID(req.TokenID)
	if tok == nil {
		// Likely raced a removal; drag streams are too chatty to error on.
		return nil
	}
	if conn.Role != RoleDirector && !ownsToken(tok, conn.Username) {
		return errUnauthorized("token %s is not yours to move", tok.ID)
	}

	rotation := normalizeRotation(req.Rotation)
	rotated := rotation != tok.Rotation
	tok.Rotation = rotation

	_, _, moved := ProposeMove(s.scene.Grid, tok, req.X, req.Y)
	if !moved && !rotated {
		return nil
	}
	if moved {
		s.invalidateFog()
	}
	s.broadcastTokens()
	s.markDirty()
	return nil
}

func (s *Session) handleRemoveToken(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestRemoveToken
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	if !s.scene.RemoveToken(req.TokenID) {
		return errNotFound("token %s not found", req.TokenID)
	}
	s.broadcastTokens()
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleUpdateTokenStats(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestUpdateTokenStats
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	tok := s.scene.TokenByID(req.TokenID)
	if tok == nil {
		return errNotFound("token %s not found", req.TokenID)
	}
	patch := req.Patch
	if conn.Role != RoleDirector {
		if !ownsToken(tok, conn.Username) {
			return errUnauthorized("token %s is not yours to edit", tok.ID)
		}
		if patchTouchesDirectorFields(patch) {
			return errUnauthorized("field requires director role")
		}
	}

	if patch.HP != nil {
		tok.HP = *patch.HP
	}
	if patch.Initiative != nil {
		tok.Initiative = *patch.Initiative
	}
	if patch.AC != nil {
		tok.AC = *patch.AC
	}
	if patch.Rotation != nil {
		tok.Rotation = *patch.Rotation
	}
	if patch.Name != nil {
		tok.Name = *patch.Name
	}
	if patch.MaxHP != nil {
		tok.MaxHP = *patch.MaxHP
	}
	if patch.Size != nil {
		tok.Size = *patch.Size
	}
	if patch.SightRadius != nil {
		tok.SightRadius = *patch.SightRadius
	}
	if patch.IsLightSource != nil {
		tok.IsLightSource = *patch.IsLightSource
	}
	if patch.BrightRange != nil {
		tok.BrightRange = *patch.BrightRange
	}
	if patch.DimRange != nil {
		tok.DimRange = *patch.DimRange
	}
	normalizeToken(tok, s.scene.Grid)

	s.broadcastTokens()
	if patchTouchesVisibilityFields(patch) {
		s.invalidateFog()
	}
	s.markDirty()
	return nil
}

func patchTouchesDirectorFields(p protocol.TokenStatsPatch) bool {
	return p.Name != nil || p.MaxHP != nil || p.Size != nil || p.SightRadius != nil ||
		p.IsLightSource != nil || p.BrightRange != nil || p.DimRange != nil
}

func patchTouchesVisibilityFields(p protocol.TokenStatsPatch) bool {
	return p.Size != nil || p.SightRadius != nil || p.IsLightSource != nil ||
		p.BrightRange != nil || p.DimRange != nil
}

func (s *Session) handleUpdateWalls(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestUpdateWalls
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	s.scene.Grid.Walls = geometry.NormalizeWalls(req.Walls, s.scene.Grid.Width, s.scene.Grid.Height)
	s.broadcastEvent(protocol.EventWallsUpdated, protocol.WallsUpdated{Walls: s.scene.Grid.Walls})
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleUpdateGridVisibility(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestUpdateGridVisibility
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	s.scene.GridLinesVisible = req.Visible
	s.broadcastEvent(protocol.EventGridVisibility, protocol.GridVisibilityUpdated{Visible: req.Visible})
	s.markDirty()
	return nil
}

func (s *Session) handleUpdateBackground(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestUpdateBackground
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	s.scene.Background = req.Ref
	s.broadcastEvent(protocol.EventBackgroundUpdated, protocol.BackgroundUpdated{Ref: req.Ref})
	s.markDirty()
	return nil
}

func (s *Session) handleUpdateGridSize(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestUpdateGridSize
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	if req.Width < s.cfg.MinGridSize || req.Width > s.cfg.MaxGridSize ||
		req.Height < s.cfg.MinGridSize || req.Height > s.cfg.MaxGridSize {
		return errOutOfRange("grid size must be between %d and %d", s.cfg.MinGridSize, s.cfg.MaxGridSize)
	}

	s.scene.Grid = s.scene.Grid.Resize(req.Width, req.Height)
	// Tokens near the old edge may now stick out; re-clamp them all.
	for i := range s.scene.Tokens {
		normalizeToken(&s.scene.Tokens[i], s.scene.Grid)
	}

	s.log.Infow("grid resized", "width", req.Width, "height", req.Height)
	s.broadcastEvent(protocol.EventGridSizeUpdated, protocol.GridSizeUpdated{
		Size: protocol.GridSize{Width: req.Width, Height: req.Height},
	})
	s.broadcastEvent(protocol.EventWallsUpdated, protocol.WallsUpdated{Walls: s.scene.Grid.Walls})
	s.broadcastTokens()
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleToggleRevealAll(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestToggleRevealAll
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	s.scene.RevealAll = req.RevealAll
	s.broadcastEvent(protocol.EventRevealAllToggled, protocol.RevealAllToggled{RevealAll: req.RevealAll})
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleSaveState(conn *Connection) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	s.persist(true)
	return nil
}

func (s *Session) handleImportState(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestImportState
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	if err := protocol.ValidateSnapshotDocument(req.Snapshot); err != nil {
		return errInvalidInput("snapshot rejected: %v", err)
	}
	var snap protocol.Snapshot
	if err := json.Unmarshal(req.Snapshot, &snap); err != nil {
		return errInvalidInput("snapshot rejected: %v", err)
	}

	s.scene = SceneFromSnapshot(snap, s.cfg.MinGridSize, s.cfg.MaxGridSize)
	s.log.Infow("state imported", "tokens", len(s.scene.Tokens),
		"width", s.scene.Grid.Width, "height", s.scene.Grid.Height)
	s.broadcastEvent(protocol.EventFullStateUpdate, protocol.FullStateUpdate{Snapshot: s.scene.Snapshot()})
	s.invalidateFog()
	s.persist(false)
	return nil
}

func (s *Session) handleClearBoard(conn *Connection) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	s.scene.Clear()
	s.log.Infow("board cleared")
	s.broadcastEvent(protocol.EventFullStateUpdate, protocol.FullStateUpdate{Snapshot: s.scene.Snapshot()})
	s.invalidateFog()
	s.markDirty()
	return nil
}

func (s *Session) handleRequestVisibility(conn *Connection) error {
	fog := s.fogFor(conn)
	s.sendEvent(conn.ID, protocol.EventVisibilityUpdate, wireFog(fog))
	return nil
}
