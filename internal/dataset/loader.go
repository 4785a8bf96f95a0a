// Package dataset implements the load → clean → flatten stages of the
// transcript pipeline: reading the JSON corpus, structural validation
// with silent drops, and flattening into the tabular Row schema.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load-stage errors. These are the only fatal errors in the pipeline:
// a missing or malformed dataset file aborts initialization.
var (
	ErrNotObject = errors.New("dataset: top-level JSON is not an object")
)

// RawCollection is the dataset file as loaded: transcript id → raw
// record, with key order preserved from the document so that the Row
// table is deterministic.
type RawCollection struct {
	Order []string
	Items map[string]json.RawMessage
}

// Len returns the number of raw entries.
func (c *RawCollection) Len() int { return len(c.Order) }

// Load reads and parses the dataset file. The top level must be a JSON
// object keyed by transcript id; entry values are kept raw and validated
// later by the cleaner.
func Load(path string) (*RawCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses dataset bytes, preserving document key order.
func Parse(data []byte) (*RawCollection, error) {
	keys, items, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return &RawCollection{Order: keys, Items: items}, nil
}

// decodeObject decodes a JSON object into raw values while recording
// the key order. encoding/json maps discard ordering, so this walks
// the token stream instead.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: parse: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, ErrNotObject
	}

	var keys []string
	items := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: parse key: %w", err)
		}
		key := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("dataset: parse value for %q: %w", key, err)
		}
		if _, dup := items[key]; !dup {
			keys = append(keys, key)
		}
		items[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("dataset: parse: %w", err)
	}
	return keys, items, nil
}
