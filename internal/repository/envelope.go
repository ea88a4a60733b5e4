package repository

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Shape sources reported by UnwrapList.
const (
	ShapeBare = "[]"
	ShapeNone = ""
)

// maxUnwrapDepth bounds how far nested envelopes are searched ({"data":{"data":[...]}}).
const maxUnwrapDepth = 2

// ListShape is the outcome of unwrapping a list response.
type ListShape struct {
	// Records holds the raw list elements. Never nil.
	Records []json.RawMessage
	// Key is the envelope path the list was found under ("data", "data.records"),
	// ShapeBare for a bare array, or ShapeNone when nothing was found.
	Key string
	// Found is false when the body held no list and Records is empty by default.
	Found bool
}

// UnwrapList extracts the record list from a records API response body.
//
// A bare array is returned as is. An object is searched for an array under
// "data", "records" and then domainKey, in that order; an object found under
// one of those keys is searched again the same way. Anything else yields an
// empty list rather than an error.
func UnwrapList(body []byte, domainKey string) ListShape {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ListShape{Records: []json.RawMessage{}}
	}
	return unwrap(raw, candidateKeys(domainKey), "", maxUnwrapDepth)
}

func candidateKeys(domainKey string) []string {
	keys := []string{"data", "records"}
	if domainKey != "" && domainKey != "data" && domainKey != "records" {
		keys = append(keys, domainKey)
	}
	return keys
}

func unwrap(raw json.RawMessage, keys []string, path string, depth int) ListShape {
	if list, ok := asArray(raw); ok {
		key := path
		if key == "" {
			key = ShapeBare
		}
		return ListShape{Records: list, Key: key, Found: true}
	}

	if depth == 0 {
		return ListShape{Records: []json.RawMessage{}}
	}

	obj, ok := asObject(raw)
	if !ok {
		return ListShape{Records: []json.RawMessage{}}
	}

	for _, k := range keys {
		v, exists := obj[k]
		if !exists {
			continue
		}
		next := k
		if path != "" {
			next = path + "." + k
		}
		if shape := unwrap(v, keys, next, depth-1); shape.Found {
			return shape
		}
	}
	return ListShape{Records: []json.RawMessage{}}
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, false
	}
	if list == nil {
		list = []json.RawMessage{}
	}
	return list, true
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// decodeRecords decodes each list element into T, skipping elements that do
// not decode.
func decodeRecords[T any](shape ListShape, log zerolog.Logger) []T {
	out := make([]T, 0, len(shape.Records))
	for i, rec := range shape.Records {
		if bytes.Equal(bytes.TrimSpace(rec), []byte("null")) {
			continue
		}
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping undecodable record")
			continue
		}
		out = append(out, v)
	}
	return out
}
