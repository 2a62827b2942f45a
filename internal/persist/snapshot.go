package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/gridtext/internal/engine/grid"
)

// ErrBadSnapshot indicates a slot document that cannot be decoded.
var ErrBadSnapshot = errors.New("persist: malformed snapshot")

// SlotState is everything persisted for one save slot: the raw cell map,
// the compiled text, view state, and the derived region layer. The grid
// is authoritative; compiled text is carried so other clients can read
// the document without decoding cells.
type SlotState struct {
	Grid         *grid.Grid
	CompiledText map[int]string
	Settings     Settings
	Cursor       grid.Coord
	ViewOffsetX  float64
	ViewOffsetY  float64
	Zoom         float64
	Regions      RegionState
}

// Settings is the per-document appearance configuration stored with a
// slot.
type Settings struct {
	DefaultFg string
	DefaultBg string
}

// RegionState is the persisted derived-region layer.
type RegionState struct {
	Clusters      []ClusterRecord
	LastGenerated time.Time
	Visible       bool
}

// ClusterRecord is one stored cluster: its bounding box and label. The
// member blocks are rederived from the grid on load.
type ClusterRecord struct {
	Bounds grid.Rect
	Label  string
}

// EncodeSlot renders the slot state as a JSON document.
func EncodeSlot(st SlotState) (string, error) {
	doc := "{}"
	var err error

	doc, err = sjson.SetRaw(doc, "worldData", "{}")
	if err != nil {
		return "", err
	}
	if st.Grid != nil {
		for at, cell := range st.Grid.All() {
			doc, err = sjson.SetRaw(doc, "worldData."+coordKey(at), encodeCell(cell))
			if err != nil {
				return "", err
			}
		}
	}

	rows := st.CompiledText
	if rows == nil {
		rows = map[int]string{}
	}
	rawRows, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "compiledText", string(rawRows)); err != nil {
		return "", err
	}

	doc, _ = sjson.Set(doc, "settings.defaultFg", st.Settings.DefaultFg)
	doc, _ = sjson.Set(doc, "settings.defaultBg", st.Settings.DefaultBg)
	doc, _ = sjson.Set(doc, "cursorPos.x", st.Cursor.X)
	doc, _ = sjson.Set(doc, "cursorPos.y", st.Cursor.Y)
	doc, _ = sjson.Set(doc, "viewOffset.x", st.ViewOffsetX)
	doc, _ = sjson.Set(doc, "viewOffset.y", st.ViewOffsetY)
	doc, _ = sjson.Set(doc, "zoomLevel", st.Zoom)

	doc, _ = sjson.SetRaw(doc, "regions.clusters", "[]")
	for _, c := range st.Regions.Clusters {
		rec := "{}"
		rec, _ = sjson.Set(rec, "bounds.minX", c.Bounds.MinX)
		rec, _ = sjson.Set(rec, "bounds.minY", c.Bounds.MinY)
		rec, _ = sjson.Set(rec, "bounds.maxX", c.Bounds.MaxX)
		rec, _ = sjson.Set(rec, "bounds.maxY", c.Bounds.MaxY)
		rec, _ = sjson.Set(rec, "label", c.Label)
		if doc, err = sjson.SetRaw(doc, "regions.clusters.-1", rec); err != nil {
			return "", err
		}
	}
	doc, _ = sjson.Set(doc, "regions.lastGenerated",
		st.Regions.LastGenerated.UTC().Format(time.RFC3339))
	doc, _ = sjson.Set(doc, "regions.clustersVisible", st.Regions.Visible)

	return doc, nil
}

// DecodeSlot parses a slot document back into state. Unknown fields are
// ignored; malformed cells or coordinates fail the whole decode rather
// than silently dropping data.
func DecodeSlot(doc string) (SlotState, error) {
	if !gjson.Valid(doc) {
		return SlotState{}, ErrBadSnapshot
	}
	r := gjson.Parse(doc)

	st := SlotState{
		Grid:         grid.New(),
		CompiledText: make(map[int]string),
	}

	var decodeErr error
	r.Get("worldData").ForEach(func(k, v gjson.Result) bool {
		at, ok := parseCoordKey(k.String())
		if !ok {
			decodeErr = fmt.Errorf("%w: bad coordinate %q", ErrBadSnapshot, k.String())
			return false
		}
		cell, ok := decodeCell(v)
		if !ok {
			decodeErr = fmt.Errorf("%w: bad cell at %q", ErrBadSnapshot, k.String())
			return false
		}
		st.Grid.Set(at, cell)
		return true
	})
	if decodeErr != nil {
		return SlotState{}, decodeErr
	}

	r.Get("compiledText").ForEach(func(k, v gjson.Result) bool {
		idx, err := strconv.Atoi(k.String())
		if err != nil {
			decodeErr = fmt.Errorf("%w: bad row index %q", ErrBadSnapshot, k.String())
			return false
		}
		st.CompiledText[idx] = v.String()
		return true
	})
	if decodeErr != nil {
		return SlotState{}, decodeErr
	}

	st.Settings.DefaultFg = r.Get("settings.defaultFg").String()
	st.Settings.DefaultBg = r.Get("settings.defaultBg").String()
	st.Cursor = grid.C(int(r.Get("cursorPos.x").Int()), int(r.Get("cursorPos.y").Int()))
	st.ViewOffsetX = r.Get("viewOffset.x").Float()
	st.ViewOffsetY = r.Get("viewOffset.y").Float()
	st.Zoom = r.Get("zoomLevel").Float()

	r.Get("regions.clusters").ForEach(func(_, v gjson.Result) bool {
		st.Regions.Clusters = append(st.Regions.Clusters, ClusterRecord{
			Bounds: grid.Rect{
				MinX: int(v.Get("bounds.minX").Int()),
				MinY: int(v.Get("bounds.minY").Int()),
				MaxX: int(v.Get("bounds.maxX").Int()),
				MaxY: int(v.Get("bounds.maxY").Int()),
			},
			Label: v.Get("label").String(),
		})
		return true
	})
	if ts := r.Get("regions.lastGenerated").String(); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			st.Regions.LastGenerated = t
		}
	}
	st.Regions.Visible = r.Get("regions.clustersVisible").Bool()

	return st, nil
}

// coordKey renders a coordinate as a compact "x,y" object key.
func coordKey(at grid.Coord) string {
	return strconv.Itoa(at.X) + "," + strconv.Itoa(at.Y)
}

func parseCoordKey(key string) (grid.Coord, bool) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return grid.Coord{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return grid.Coord{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return grid.Coord{}, false
	}
	return grid.C(x, y), true
}

// encodeCell renders one cell as a compact JSON object. Unstyled prose
// stays a single field so plain documents remain small.
func encodeCell(c grid.Cell) string {
	out := "{}"
	switch c.Kind {
	case grid.KindLabel:
		out, _ = sjson.Set(out, "label", c.Text)
		if c.Color != "" {
			out, _ = sjson.Set(out, "color", c.Color)
		}
	case grid.KindMarker:
		out, _ = sjson.Set(out, "marker", true)
		if c.Color != "" {
			out, _ = sjson.Set(out, "color", c.Color)
		}
	default:
		out, _ = sjson.Set(out, "ch", string(c.Rune))
		if c.Styled {
			out, _ = sjson.Set(out, "fg", c.Style.Fg)
			out, _ = sjson.Set(out, "bg", c.Style.Bg)
		}
	}
	return out
}

func decodeCell(v gjson.Result) (grid.Cell, bool) {
	if lbl := v.Get("label"); lbl.Exists() {
		if lbl.String() == "" {
			return grid.Cell{}, false
		}
		return grid.NewLabel(lbl.String(), v.Get("color").String()), true
	}
	if v.Get("marker").Bool() {
		return grid.NewMarker(v.Get("color").String()), true
	}
	ch := []rune(v.Get("ch").String())
	if len(ch) != 1 {
		return grid.Cell{}, false
	}
	if fg, bg := v.Get("fg"), v.Get("bg"); fg.Exists() || bg.Exists() {
		return grid.NewStyledRune(ch[0], grid.Style{Fg: fg.String(), Bg: bg.String()}), true
	}
	return grid.NewRune(ch[0]), true
}
