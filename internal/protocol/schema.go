package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompileString("snapshot.schema.json", snapshotSchemaJSON)

// ValidateSnapshotDocument checks an imported snapshot structurally before it
// is allowed to replace the authoritative scene. Field-level normalization
// (clamping, defaulting) happens later; this only rejects documents that are
// not snapshot-shaped at all.
func ValidateSnapshotDocument(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot failed validation: %w", err)
	}
	return nil
}
