package export

import (
	"path/filepath"
	"testing"

	"gridboard/internal/board"
	"gridboard/internal/grid"
	"gridboard/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(nil)
	st.AddCanvas(&board.Canvas{ID: "main", Name: "Main", Background: "#222222"})
	st.AddCanvas(&board.Canvas{ID: "side", Name: "Side"})

	narrow := &board.Layout{X: 0, Y: 0, Width: 4, Height: 3, Customized: true}
	if _, ok := st.AddItem(&board.Item{
		ID: "a", CanvasID: "main", Type: "chart",
		Wide:   board.Layout{X: 2, Y: 1, Width: 10, Height: 6},
		Narrow: narrow,
		Config: map[string]any{"title": "CPU"},
	}); !ok {
		t.Fatal("seed a failed")
	}
	if _, ok := st.AddItem(&board.Item{
		ID: "b", CanvasID: "side", Type: "note",
		Wide: board.Layout{X: 0, Y: 0, Width: 6, Height: 4},
	}); !ok {
		t.Fatal("seed b failed")
	}
	return st
}

func TestDocumentRoundTrip(t *testing.T) {
	st := seedStore(t)

	doc := Snapshot(st)
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	fresh := store.New(nil)
	if _, err := Apply(fresh, decoded); err != nil {
		t.Fatalf("apply: %v", err)
	}

	item, ok := fresh.GetItem("a")
	if !ok {
		t.Fatal("item a missing after round trip")
	}
	if item.Wide != (board.Layout{X: 2, Y: 1, Width: 10, Height: 6}) {
		t.Fatalf("wide = %+v", item.Wide)
	}
	if item.Narrow == nil || !item.Narrow.Customized || item.Narrow.Width != 4 {
		t.Fatalf("narrow = %+v, want customized 4-wide", item.Narrow)
	}
	if item.Config["title"] != "CPU" {
		t.Fatalf("config = %#v", item.Config)
	}
	if item.ZIndex != 0 {
		t.Fatalf("z = %d, want 0 preserved", item.ZIndex)
	}

	canvas, _ := fresh.GetCanvas("main")
	if canvas.Background != "#222222" || canvas.Name != "Main" {
		t.Fatalf("canvas attrs lost: %+v", canvas)
	}

	// A second snapshot must be identical: lossless round trip.
	again, _ := EncodeJSON(Snapshot(fresh))
	if string(again) != string(data) {
		t.Fatalf("round trip not lossless:\n%s\nvs\n%s", data, again)
	}
}

func TestApplyIsOneNotification(t *testing.T) {
	st := seedStore(t)
	doc := Snapshot(st)

	fresh := store.New(nil)
	itemEvents := 0
	fresh.Subscribe(store.SectionCanvases, func(ev store.Event) {
		if _, ok := ev.(store.ItemsBatchAdded); ok {
			itemEvents++
		}
	})
	if _, err := Apply(fresh, doc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if itemEvents != 1 {
		t.Fatalf("batch notifications = %d, want 1", itemEvents)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"version": 99, "canvases": []}`)); err == nil {
		t.Fatal("unknown version should be rejected")
	}
	if _, err := DecodeJSON([]byte(`{not json`)); err == nil {
		t.Fatal("malformed JSON should be rejected")
	}
}

func TestWritePNG(t *testing.T) {
	st := seedStore(t)
	conv := grid.NewConverter(grid.Config{}, nil)
	conv.SetCanvasWidth("main", 1000)
	conv.SetCanvasWidth("side", 800)

	path := filepath.Join(t.TempDir(), "board.png")
	if err := WritePNG(st, conv, path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
}

func TestWritePNGEmptyStore(t *testing.T) {
	conv := grid.NewConverter(grid.Config{}, nil)
	if err := WritePNG(store.New(nil), conv, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("empty store should be an error")
	}
}
