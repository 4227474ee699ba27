package protocol

// EventEnvelope wraps every server-to-client message. Sequence numbers are
// assigned in broadcast order; all connections observe the same sequence, so
// clients can detect gaps and reordering.
type EventEnvelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

// Event type names emitted by the session loop.
const (
	EventInit              = "init"
	EventFullStateUpdate   = "fullStateUpdate"
	EventTokensUpdated     = "updateTokens"
	EventWallsUpdated      = "updateWalls"
	EventGridVisibility    = "updateGridVisibility"
	EventBackgroundUpdated = "updateBackground"
	EventGridSizeUpdated   = "updateGridSize"
	EventRevealAllToggled  = "revealAllToggled"
	EventDiceResult        = "diceResult"
	EventDamageApplied     = "damageApplied"
	EventError             = "error"
	EventSaveSuccess       = "saveSuccess"
	EventClients           = "clients"
	EventVisibilityUpdate  = "visibilityUpdate"
)

// Init is sent once to a connection after a successful login.
type Init struct {
	Snapshot Snapshot `json:"snapshot"`
	Role     string   `json:"role"`
	Username string   `json:"username"`
}

type FullStateUpdate struct {
	Snapshot Snapshot `json:"snapshot"`
}

type TokensUpdated struct {
	Tokens []Token `json:"tokens"`
}

type WallsUpdated struct {
	Walls [][]bool `json:"walls"`
}

type GridVisibilityUpdated struct {
	Visible bool `json:"visible"`
}

type BackgroundUpdated struct {
	Ref string `json:"ref"`
}

type GridSizeUpdated struct {
	Size GridSize `json:"size"`
}

type RevealAllToggled struct {
	RevealAll bool `json:"revealAll"`
}

// DiceResult reports a roll. Hidden rolls deliver the full result only to the
// rolling director; everyone else receives a copy with Output and Total
// zeroed and Redacted set.
type DiceResult struct {
	Roller    string `json:"roller"`
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	Total     int    `json:"total"`
	Hidden    bool   `json:"hidden"`
	Redacted  bool   `json:"redacted,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// DamageApplied reports HP arithmetic on a token. The director variant
// carries the resulting HP; the public variant omits it.
type DamageApplied struct {
	Dealer       string `json:"dealer"`
	TargetID     string `json:"targetId"`
	TargetName   string `json:"targetName"`
	Damage       int    `json:"damage"`
	RollNotation string `json:"rollNotation,omitempty"`
	NewHP        int    `json:"newHP,omitempty"`
	MaxHP        int    `json:"maxHP,omitempty"`
	ForDirector  bool   `json:"forDirector"`
	Timestamp    int64  `json:"timestamp"`
}

type ErrorEvent struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type SaveSuccess struct {
	Message string `json:"message"`
}

type Clients struct {
	Usernames []string `json:"usernames"`
}

// Fog classification values in VisibilityUpdate.Cells.
const (
	FogOpaque  = 0
	FogDim     = 1
	FogVisible = 2
)

// VisibilityUpdate is the per-viewer fog classification, row-major over the
// grid, sent only to the requesting connection.
type VisibilityUpdate struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Cells  []int `json:"cells"`
}
