package main

import (
	"encoding/json"

	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

func (s *Session) handleRollDice(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestRollDice
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	result, err := s.dice.Roll(req.Expression)
	if err != nil {
		return err
	}

	// Only directors get to roll behind the screen.
	hidden := req.Hidden && conn.Role == RoleDirector
	event := protocol.DiceResult{
		Roller:    conn.Username,
		Input:     result.Input,
		Output:    result.Output,
		Total:     result.Total,
		Hidden:    hidden,
		Timestamp: s.now().UnixMilli(),
	}
	s.log.Infow("dice rolled", "roller", conn.Username, "input", result.Input, "total", result.Total, "hidden", hidden)

	if !hidden {
		s.broadcastEvent(protocol.EventDiceResult, event)
		return nil
	}

	s.sendEvent(conn.ID, protocol.EventDiceResult, event)

	redacted := event
	redacted.Output = ""
	redacted.Total = 0
	redacted.Redacted = true
	var others []string
	for _, c := range s.registry.Connections() {
		if c.ID != conn.ID {
			others = append(others, c.ID)
		}
	}
	s.sendEventTo(others, protocol.EventDiceResult, redacted)
	return nil
}

func (s *Session) handleApplyDamage(conn *Connection, payload json.RawMessage) error {
	var req protocol.RequestApplyDamage
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	tok := s.scene.TokenByID(req.TargetID)
	if tok == nil {
		return errNotFound("token %s not found", req.TargetID)
	}
	// A participant cannot target what their fog hides; report it exactly
	// like a missing token so nothing about it leaks.
	if conn.Role != RoleDirector && !TokenKnowable(s.fogFor(conn), tok) {
		return errNotFound("token %s not found", req.TargetID)
	}
	result, err := s.dice.Roll(req.Expression)
	if err != nil {
		return err
	}
	s.applyDamage(conn.Username, tok, result.Total, result.Input)
	return nil
}

func (s *Session) handleApplySpecificDamage(conn *Connection, payload json.RawMessage) error {
	if err := s.requireDirector(conn); err != nil {
		return err
	}
	var req protocol.RequestApplySpecificDamage
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	if req.Amount < 0 {
		return errInvalidInput("damage amount must not be negative")
	}
	tok := s.scene.TokenByID(req.TargetID)
	if tok == nil {
		return errNotFound("token %s not found", req.TargetID)
	}
	dealer := req.Dealer
	if dealer == "" {
		dealer = conn.Username
	}
	s.applyDamage(dealer, tok, req.Amount, "")
	return nil
}

// applyDamage subtracts damage from the target's HP, flooring at zero, and
// fans out the two damage event variants: directors see the resulting HP,
// everyone else only sees the hit.
func (s *Session) applyDamage(dealer string, tok *protocol.Token, damage int, notation string) {
	if damage < 0 {
		damage = 0
	}
	tok.HP = max(tok.HP-damage, 0)
	s.log.Infow("damage applied", "dealer", dealer, "target", tok.ID, "damage", damage, "hp", tok.HP)

	s.broadcastTokens()
	s.markDirty()

	ts := s.now().UnixMilli()
	directorEvent := protocol.DamageApplied{
		Dealer:       dealer,
		TargetID:     tok.ID,
		TargetName:   tok.Name,
		Damage:       damage,
		RollNotation: notation,
		NewHP:        tok.HP,
		MaxHP:        tok.MaxHP,
		ForDirector:  true,
		Timestamp:    ts,
	}
	publicEvent := protocol.DamageApplied{
		Dealer:       dealer,
		TargetID:     tok.ID,
		TargetName:   tok.Name,
		Damage:       damage,
		RollNotation: notation,
		Timestamp:    ts,
	}

	var directors, others []string
	for _, c := range s.registry.Connections() {
		if c.Role == RoleDirector {
			directors = append(directors, c.ID)
		} else {
			others = append(others, c.ID)
		}
	}
	s.sendEventTo(directors, protocol.EventDamageApplied, directorEvent)
	s.sendEventTo(others, protocol.EventDamageApplied, publicEvent)
}
