package buildstate

import (
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// MergeContent applies an RFC 7396 merge patch: objects merge key by key,
// null removes a key and arrays are replaced whole.
func MergeContent(current, patch []byte) ([]byte, error) {
	if len(current) == 0 || string(current) == "null" {
		current = []byte("{}")
	}
	return jsonpatch.MergePatch(current, patch)
}
