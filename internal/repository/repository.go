// Package repository holds the persistence port for the content collection.
// Backends live in subpackages: file, postgres, redisstore, objectstore, memory.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"contentapi/internal/model"
)

// ErrMalformed is returned by Load when the stored record cannot be decoded
// as an ordered list of content items.
var ErrMalformed = errors.New("malformed content record")

// ContentStore persists the whole content collection as one record under one
// fixed key. Save always replaces the full record; there is no partial write.
type ContentStore interface {
	// Load returns the stored collection in stored order. A missing record is
	// an empty collection, not an error.
	Load(ctx context.Context) ([]model.ContentItem, error)

	// Save replaces the stored collection.
	Save(ctx context.Context, items []model.ContentItem) error
}

// Pinger is implemented by stores that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Encode serializes items into the persisted record format.
func Encode(items []model.ContentItem) ([]byte, error) {
	if items == nil {
		items = []model.ContentItem{}
	}
	return json.Marshal(items)
}

// Decode parses a persisted record. Empty input and JSON null decode to an
// empty collection.
func Decode(data []byte) ([]model.ContentItem, error) {
	if len(data) == 0 {
		return []model.ContentItem{}, nil
	}
	var items []model.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if items == nil {
		items = []model.ContentItem{}
	}
	return items, nil
}
