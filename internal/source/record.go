package source

import (
	"encoding/base64"
	"fmt"

	"github.com/desertthunder/abx/internal/shared"
)

// MapRecord is a [Record] backed by decoded JSON-like data.
//
// Scalars are stored under their [Property] name. Multi-valued properties hold either a list of entries or an
// object {"primary": id, "entries": [...]}, each entry being {"id", "label", "value"}. The photo is a
// base64 string under "image".
type MapRecord map[string]any

const imageKey = "image"

var _ Record = MapRecord{}

// Value returns the raw scalar stored for p, or nil when absent.
func (r MapRecord) Value(p Property) (any, error) {
	return r[string(p)], nil
}

// MultiValue decodes the container stored for p. Absent properties return (nil, nil).
func (r MapRecord) MultiValue(p Property) (*MultiValue, error) {
	raw, ok := r[string(p)]
	if !ok || raw == nil {
		return nil, nil
	}

	mv := &MultiValue{}
	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case map[string]any:
		if id, ok := v["primary"].(string); ok {
			mv.PrimaryIdentifier = id
		}
		list, ok := v["entries"].([]any)
		if !ok && v["entries"] != nil {
			return nil, fmt.Errorf("%w: %s entries are %T", shared.ErrFieldUnreadable, p, v["entries"])
		}
		entries = list
	default:
		return nil, fmt.Errorf("%w: %s is %T", shared.ErrFieldUnreadable, p, raw)
	}

	mv.Entries = make([]Entry, 0, len(entries))
	for _, item := range entries {
		e := Entry{}
		if m, ok := item.(map[string]any); ok {
			e.Identifier, _ = m["id"].(string)
			e.Label, _ = m["label"].(string)
			e.Value = m["value"]
		}
		mv.Entries = append(mv.Entries, e)
	}
	return mv, nil
}

// ImageData decodes the base64 photo, or returns nil when absent.
func (r MapRecord) ImageData() ([]byte, error) {
	raw, ok := r[imageKey]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: image: %v", shared.ErrFieldUnreadable, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: image is %T", shared.ErrFieldUnreadable, raw)
	}
}

// Close is a no-op.
func (r MapRecord) Close() error { return nil }
