// Package collection manages an ordered list of JSON items stored as a
// single array document inside one site-data section. The portfolio and
// gallery endpoints are both instances of it.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/treyfatech/sitecms/internal/sitedata"
)

// Item is a freeform JSON object carrying at least an "id" field.
type Item map[string]interface{}

func (i Item) ID() string {
	id, _ := i["id"].(string)
	return id
}

// decodeItems parses a section document into its item list. A missing
// or null document reads as an empty collection.
func decodeItems(doc sitedata.Document) ([]Item, error) {
	if len(doc) == 0 {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, fmt.Errorf("decode collection document: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func encodeItems(items []Item) (sitedata.Document, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode collection document: %w", err)
	}
	return sitedata.Document(raw), nil
}

func stampNew(item Item, id string) {
	item["id"] = id
	item["createdAt"] = time.Now().UTC().Format(time.RFC3339)
}

func stampUpdated(item Item) {
	item["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
}

// ErrCollectionMissing is returned when the backing section row does
// not exist at all; item mutations require at least one prior write.
var ErrCollectionMissing = errors.New("collection not found")
