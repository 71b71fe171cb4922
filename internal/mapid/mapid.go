// Package mapid decides which key a saved map is stored under.
//
// A payload that is a JSON object with a non-empty top-level string field
// "filename" is stored under that filename verbatim. Anything else gets a
// short random ID. The filename is not sanitized: a caller can target any
// existing key by choosing its filename.
package mapid

import (
	"encoding/json"

	"github.com/alfredjeanlab/marketmaps/internal/idgen"
)

// FilenameField is the top-level JSON field probed for an explicit key.
const FilenameField = "filename"

// FromPayload returns the filename embedded in payload. ok is false when the
// payload is not a JSON object, has no filename field, or the field is not a
// non-empty string.
func FromPayload(payload string) (id string, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return "", false
	}
	raw, present := fields[FilenameField]
	if !present {
		return "", false
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", false
	}
	if id == "" {
		return "", false
	}
	return id, true
}

// Assign returns the key for payload: the embedded filename when present,
// otherwise a random ID of length n. generated reports which branch was taken.
func Assign(payload string, n int) (id string, generated bool, err error) {
	if id, ok := FromPayload(payload); ok {
		return id, false, nil
	}
	id, err = idgen.GenerateLength(n)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}
