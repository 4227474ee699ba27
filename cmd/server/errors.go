package main

import (
	"fmt"

	"github.com/thorgrid/tabletop-engine/internal/protocol"
)

// GameError is a rule-layer failure surfaced to the originating connection
// as an error event; it never terminates the session.
type GameError struct {
	Code    string
	Message string
}

func (e *GameError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func errUnauthorized(format string, args ...any) *GameError {
	return &GameError{Code: protocol.ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...any) *GameError {
	return &GameError{Code: protocol.ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func errInvalidInput(format string, args ...any) *GameError {
	return &GameError{Code: protocol.ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func errOutOfRange(format string, args ...any) *GameError {
	return &GameError{Code: protocol.ErrOutOfRange, Message: fmt.Sprintf(format, args...)}
}
