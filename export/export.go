package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/milk9111/mapgrid/grid"
	"github.com/milk9111/mapgrid/viewport"
	"github.com/tidwall/gjson"
)

// DefaultName is the file name offered for a download.
const DefaultName = "map.json"

var (
	ErrMalformed   = errors.New("malformed export document")
	ErrUnavailable = errors.New("no export sink available")
)

// MapInfo holds the baseline and current (zoomed) map pixel sizes.
type MapInfo struct {
	OriginWidth  int     `json:"originWidth"`
	OriginHeight int     `json:"originHeight"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// GridInfo holds the current cell pixel size.
type GridInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the exported map. Data is indexed [column][row] and holds
// grid.CellType codes.
type Document struct {
	Map  MapInfo  `json:"map"`
	Grid GridInfo `json:"grid"`
	Data [][]int  `json:"data"`
}

// Build snapshots the grid together with the viewport's current sizes.
func Build(g *grid.Grid, v *viewport.Viewport) Document {
	base := v.BaseMapSize()
	mapSize := v.MapSize()
	cell := v.CellSize()
	return Document{
		Map: MapInfo{
			OriginWidth:  int(math.Round(base.W)),
			OriginHeight: int(math.Round(base.H)),
			Width:        mapSize.W,
			Height:       mapSize.H,
		},
		Grid: GridInfo{Width: cell.W, Height: cell.H},
		Data: g.ToMatrix(),
	}
}

// Marshal encodes the document as compact JSON. Key order follows the struct
// definitions, so identical grids produce identical bytes.
func Marshal(doc Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("export: marshal: %w", err)
	}
	return b, nil
}

// Decode parses a document previously written by Marshal.
func Decode(data []byte) (Document, error) {
	var doc Document
	if !gjson.ValidBytes(data) {
		return doc, fmt.Errorf("export: decode: invalid json: %w", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	for _, key := range []string{"map", "grid", "data"} {
		if !root.Get(key).Exists() {
			return doc, fmt.Errorf("export: decode: missing %q: %w", key, ErrMalformed)
		}
	}

	m := root.Get("map")
	doc.Map = MapInfo{
		OriginWidth:  int(m.Get("originWidth").Int()),
		OriginHeight: int(m.Get("originHeight").Int()),
		Width:        m.Get("width").Float(),
		Height:       m.Get("height").Float(),
	}
	gr := root.Get("grid")
	doc.Grid = GridInfo{Width: gr.Get("width").Float(), Height: gr.Get("height").Float()}

	cols := root.Get("data")
	if !cols.IsArray() {
		return doc, fmt.Errorf("export: decode: data is not an array: %w", ErrMalformed)
	}
	var decodeErr error
	cols.ForEach(func(_, col gjson.Result) bool {
		if !col.IsArray() {
			decodeErr = fmt.Errorf("export: decode: column %d is not an array: %w", len(doc.Data), ErrMalformed)
			return false
		}
		rows := col.Array()
		column := make([]int, len(rows))
		for y, v := range rows {
			if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
				decodeErr = fmt.Errorf("export: decode: cell (%d,%d) is not an integer: %w", len(doc.Data), y, ErrMalformed)
				return false
			}
			column[y] = int(v.Int())
		}
		doc.Data = append(doc.Data, column)
		return true
	})
	if decodeErr != nil {
		return Document{}, decodeErr
	}
	if doc.Data == nil {
		doc.Data = [][]int{}
	}
	return doc, nil
}

// Restore copies a decoded document's cell data into g. The grid must have
// the same number of columns and rows as the document.
func Restore(g *grid.Grid, doc Document) error {
	if err := g.Load(doc.Data); err != nil {
		return fmt.Errorf("export: restore: %w", err)
	}
	return nil
}

// ReadFile decodes a document from disk.
func ReadFile(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("export: read %s: %w", path, err)
	}
	return Decode(b)
}

// Sink delivers encoded documents: a file on disk, the clipboard, a browser
// download.
type Sink interface {
	Deliver(name string, data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, data []byte) error

func (f SinkFunc) Deliver(name string, data []byte) error { return f(name, data) }

// FileSink writes documents into Dir.
type FileSink struct {
	Dir string
}

func (s FileSink) Deliver(name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Deliver(name string, data []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Exporter is offered to the operator only when it has somewhere to deliver.
type Exporter struct {
	Sink Sink
	Name string
}

func (e *Exporter) Available() bool { return e != nil && e.Sink != nil }

// Export builds, encodes and delivers the current grid and returns the bytes
// that were delivered.
func (e *Exporter) Export(g *grid.Grid, v *viewport.Viewport) ([]byte, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}
	b, err := Marshal(Build(g, v))
	if err != nil {
		return nil, err
	}
	name := e.Name
	if name == "" {
		name = DefaultName
	}
	if err := e.Sink.Deliver(name, b); err != nil {
		return nil, err
	}
	return b, nil
}
