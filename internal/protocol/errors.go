package protocol

// Error codes carried by ErrorEvent. Blocked movement is deliberately absent:
// a rejected step is a normal outcome, not an error, and produces no event.
const (
	ErrUnauthorized = "E_UNAUTHORIZED"
	ErrNotFound     = "E_NOT_FOUND"
	ErrInvalidInput = "E_INVALID_INPUT"
	ErrOutOfRange   = "E_OUT_OF_RANGE"
	ErrPersistence  = "E_PERSISTENCE"
)

var knownCodes = map[string]struct{}{
	ErrUnauthorized: {},
	ErrNotFound:     {},
	ErrInvalidInput: {},
	ErrOutOfRange:   {},
	ErrPersistence:  {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
