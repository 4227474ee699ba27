package protocol

// Token is the wire and persistence shape of a scene token. The session core
// owns the authoritative copies; every field is normalized once at
// construction (addToken / importState) and never re-validated at read time.
type Token struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner,omitempty"`
	IsMinion    bool   `json:"isMinion,omitempty"`
	ParentOwner string `json:"parentOwner,omitempty"`

	X        int `json:"x"`
	Y        int `json:"y"`
	Size     int `json:"size"`
	Rotation int `json:"rotation"`

	MaxHP      int `json:"maxHP"`
	HP         int `json:"hp"`
	AC         int `json:"ac"`
	Initiative int `json:"initiative"`

	// SightRadius is inherent vision in feet; converted to cells at the
	// configured feet-per-cell ratio when visibility is computed.
	SightRadius   int  `json:"sightRadius"`
	IsLightSource bool `json:"isLightSource"`
	BrightRange   int  `json:"brightRange"`
	DimRange      int  `json:"dimRange"`

	ImageRef string `json:"imageRef,omitempty"`
	Color    string `json:"color,omitempty"`
}

type GridSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewState is opaque presentation state (camera) carried through snapshots
// for the convenience of clients; the core never interprets it.
type ViewState struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
}

// Snapshot is the full persisted/imported scene document. Walls are row-major
// with dimensions matching GridSize.
type Snapshot struct {
	Tokens           []Token    `json:"tokens"`
	Walls            [][]bool   `json:"walls"`
	Background       string     `json:"background"`
	GridSize         GridSize   `json:"gridSize"`
	GridLinesVisible bool       `json:"gridLinesVisible"`
	RevealAll        bool       `json:"revealAll"`
	ViewState        *ViewState `json:"viewState,omitempty"`
}
