package export

import (
	"encoding/json"
	"fmt"

	"gridboard/internal/board"
	"gridboard/internal/store"
)

// DocumentVersion is the current layout document schema version.
const DocumentVersion = 1

// Document is the persisted layout format: a versioned mapping of canvases
// to ordered item lists, each item carrying both layouts, z-index, type, and
// opaque config. It round-trips losslessly through the store.
type Document struct {
	Version  int         `json:"version"`
	Canvases []CanvasDoc `json:"canvases"`
}

// CanvasDoc is one canvas in a document.
type CanvasDoc struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Background    string    `json:"background,omitempty"`
	ZIndexCounter int       `json:"zIndexCounter"`
	Items         []ItemDoc `json:"items"`
}

// ItemDoc is one item in a document.
type ItemDoc struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Wide   board.Layout   `json:"wide"`
	Narrow *board.Layout  `json:"narrow,omitempty"`
	ZIndex int            `json:"zIndex"`
	Config map[string]any `json:"config,omitempty"`
}

// Snapshot captures the store's full canvas/item graph as a document.
func Snapshot(st *store.Store) Document {
	doc := Document{Version: DocumentVersion}
	for _, c := range st.Canvases() {
		cd := CanvasDoc{
			ID:            c.ID,
			Name:          c.Name,
			Background:    c.Background,
			ZIndexCounter: c.ZIndexCounter,
			Items:         make([]ItemDoc, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			cd.Items = append(cd.Items, ItemDoc{
				ID:     it.ID,
				Type:   it.Type,
				Wide:   it.Wide,
				Narrow: it.Narrow,
				ZIndex: it.ZIndex,
				Config: it.Config,
			})
		}
		doc.Canvases = append(doc.Canvases, cd)
	}
	return doc
}

// Apply loads a document into the store: canvases are registered and items
// added through the store's batch path, so the whole import is one
// notification and — when the caller wraps the returned items — one undo
// step per canvas set.
func Apply(st *store.Store, doc Document) ([]*board.Item, error) {
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	var pending []*board.Item
	for _, cd := range doc.Canvases {
		canvas := &board.Canvas{
			ID:            cd.ID,
			Name:          cd.Name,
			Background:    cd.Background,
			ZIndexCounter: cd.ZIndexCounter,
		}
		st.AddCanvas(canvas)
		for _, it := range cd.Items {
			var narrow *board.Layout
			if it.Narrow != nil {
				n := *it.Narrow
				narrow = &n
			}
			pending = append(pending, &board.Item{
				ID:       it.ID,
				CanvasID: cd.ID,
				Type:     it.Type,
				Wide:     it.Wide,
				Narrow:   narrow,
				ZIndex:   it.ZIndex,
				Config:   it.Config,
			})
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	placements := make([]store.Placement, len(pending))
	for i, it := range pending {
		placements[i] = store.Placement{Item: it, Index: -1}
	}
	return st.RestoreItemsBatch(placements), nil
}

// EncodeJSON marshals a document with stable indentation.
func EncodeJSON(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout document: %w", err)
	}
	return data, nil
}

// DecodeJSON unmarshals and version-checks a document.
func DecodeJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse layout document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return Document{}, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	return doc, nil
}
