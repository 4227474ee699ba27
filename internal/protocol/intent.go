package protocol

import "encoding/json"

// IntentEnvelope wraps every client-to-server message. Payload decoding is
// deferred until the intent type is known.
type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Intent type names accepted by the session loop.
const (
	IntentLogin                = "login"
	IntentAddToken             = "addToken"
	IntentMoveToken            = "moveToken"
	IntentRemoveToken          = "removeToken"
	IntentUpdateTokenStats     = "updateTokenStats"
	IntentUpdateWalls          = "updateWalls"
	IntentUpdateGridVisibility = "updateGridVisibility"
	IntentUpdateBackground     = "updateBackground"
	IntentUpdateGridSize       = "updateGridSize"
	IntentToggleRevealAll      = "toggleRevealAll"
	IntentSaveState            = "saveState"
	IntentImportState          = "importState"
	IntentClearBoard           = "clearBoard"
	IntentRollDice             = "rollDice"
	IntentApplyDamage          = "applyDamage"
	IntentApplySpecificDamage  = "applySpecificDamage"
	IntentRequestVisibility    = "requestVisibility"
)

type RequestLogin struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenSpec carries the client-settable fields of a new token. Position is
// server-assigned (spawn markers or grid center); identity and ownership are
// never client-controlled.
type TokenSpec struct {
	Name          string `json:"name"`
	Size          int    `json:"size"`
	Rotation      int    `json:"rotation"`
	MaxHP         int    `json:"maxHP"`
	HP            int    `json:"hp"`
	AC            int    `json:"ac"`
	Initiative    int    `json:"initiative"`
	SightRadius   int    `json:"sightRadius"`
	IsLightSource bool   `json:"isLightSource"`
	BrightRange   int    `json:"brightRange"`
	DimRange      int    `json:"dimRange"`
	IsMinion      bool   `json:"isMinion"`
	ImageRef      string `json:"imageRef"`
	Color         string `json:"color"`
}

type RequestAddToken struct {
	Spec TokenSpec `json:"spec"`
}

type RequestMoveToken struct {
	TokenID  string `json:"tokenId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
}

type RequestRemoveToken struct {
	TokenID string `json:"tokenId"`
}

// TokenStatsPatch updates a subset of token fields. Nil means "leave alone".
// Owners may only touch HP, initiative, AC, and rotation; the remaining
// fields are director-only.
type TokenStatsPatch struct {
	HP         *int `json:"hp,omitempty"`
	Initiative *int `json:"initiative,omitempty"`
	AC         *int `json:"ac,omitempty"`
	Rotation   *int `json:"rotation,omitempty"`

	Name          *string `json:"name,omitempty"`
	MaxHP         *int    `json:"maxHP,omitempty"`
	Size          *int    `json:"size,omitempty"`
	SightRadius   *int    `json:"sightRadius,omitempty"`
	IsLightSource *bool   `json:"isLightSource,omitempty"`
	BrightRange   *int    `json:"brightRange,omitempty"`
	DimRange      *int    `json:"dimRange,omitempty"`
}

type RequestUpdateTokenStats struct {
	TokenID string          `json:"tokenId"`
	Patch   TokenStatsPatch `json:"patch"`
}

type RequestUpdateWalls struct {
	Walls [][]bool `json:"walls"`
}

type RequestUpdateGridVisibility struct {
	Visible bool `json:"visible"`
}

type RequestUpdateBackground struct {
	Ref string `json:"ref"`
}

type RequestUpdateGridSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type RequestToggleRevealAll struct {
	RevealAll bool `json:"revealAll"`
}

type RequestImportState struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

type RequestRollDice struct {
	Expression string `json:"expression"`
	Hidden     bool   `json:"hidden"`
}

type RequestApplyDamage struct {
	Expression string `json:"expression"`
	TargetID   string `json:"targetId"`
}

type RequestApplySpecificDamage struct {
	Amount   int    `json:"amount"`
	TargetID string `json:"targetId"`
	Dealer   string `json:"dealer"`
}
