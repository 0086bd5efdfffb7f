package fileutil

import (
	"encoding/json"
	"os"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// ReadJSONMap reads a JSON file into a map of raw top-level values.
// A missing file yields (nil, nil); a present but unparseable file is an
// error. Values are kept as json.RawMessage so keys this program does not
// understand survive a read-modify-write cycle untouched.
func ReadJSONMap(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return raw, nil
}

// ReadJSONMapLenient reads a JSON file into a map of raw top-level values,
// treating a missing or corrupt file as empty. Used on the write path, where
// an unreadable existing file must not block saving a fresh structure.
func ReadJSONMapLenient(path string) map[string]json.RawMessage {
	raw, err := ReadJSONMap(path)
	if err != nil || raw == nil {
		return make(map[string]json.RawMessage)
	}
	return raw
}
