package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/abx/internal/shared"
)

// JSONSource is a [MemorySource] loaded from a JSON array of [MapRecord] objects.
type JSONSource struct {
	*MemorySource
}

// OpenJSON reads the file at path. The record whose "uid" equals ownerID, if any, becomes the owner card.
func OpenJSON(path, ownerID string) (*JSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return ParseJSON(bytes.NewReader(data), ownerID)
}

// ParseJSON decodes a JSON array of records from r.
func ParseJSON(r io.Reader, ownerID string) (*JSONSource, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode records: %v", shared.ErrSourceUnavailable, err)
	}

	records := make([]Record, len(raw))
	var owner Record
	for i, m := range raw {
		rec := MapRecord(m)
		records[i] = rec
		if ownerID != "" && owner == nil {
			if uid, _ := m[string(UID)].(string); uid == ownerID {
				owner = rec
			}
		}
	}

	return &JSONSource{MemorySource: NewMemorySource(records...).WithOwner(owner)}, nil
}
