package render

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// FieldMap is the external layout descriptor used when a template exposes no
// interactive fields: a page index, a coordinate-origin convention, a default
// font size and a key -> position table. Loaded fresh on every render call.
type FieldMap struct {
	Page     int                 `json:"page"`
	Origin   string              `json:"origin"` // "top-left" or "bottom-left"
	FontSize float64             `json:"fontSize"`
	Fields   map[string]FieldPos `json:"fields"`
}

// FieldPos places one dictionary key on the page. Size, when non-zero,
// overrides the descriptor's default font size.
type FieldPos struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size,omitempty"`
}

const (
	originTopLeft    = "top-left"
	originBottomLeft = "bottom-left"
)

// LoadFieldMap reads and validates a field-map descriptor.
func LoadFieldMap(path string) (*FieldMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map: %w", err)
	}
	var fm FieldMap
	if err := json.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse field map %s: %w", path, err)
	}
	if fm.Page < 1 {
		fm.Page = 1
	}
	if fm.FontSize <= 0 {
		fm.FontSize = 10
	}
	switch fm.Origin {
	case "":
		fm.Origin = originBottomLeft
	case originTopLeft, originBottomLeft:
	default:
		return nil, fmt.Errorf("field map %s: unknown origin %q", path, fm.Origin)
	}
	return &fm, nil
}

// stampSpec is one piece of text to draw at an absolute position, in PDF
// user-space coordinates (bottom-left origin).
type stampSpec struct {
	key  string // dictionary key, for per-field reporting
	page int
	text string
	x, y float64
	size float64
}

// stamps resolves the descriptor against the dictionary. Keys whose value is
// empty are skipped entirely - an empty string is never drawn. Positions
// declared against a top-left origin are flipped using the page height.
func (fm *FieldMap) stamps(d Dict, pageHeight float64) []stampSpec {
	keys := make([]string, 0, len(fm.Fields))
	for key := range fm.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	specs := make([]stampSpec, 0, len(fm.Fields))
	for _, key := range keys {
		pos := fm.Fields[key]
		text := displayValue(d, key)
		if text == "" {
			continue
		}
		y := pos.Y
		if fm.Origin == originTopLeft {
			y = pageHeight - pos.Y
		}
		size := pos.Size
		if size <= 0 {
			size = fm.FontSize
		}
		specs = append(specs, stampSpec{
			key:  key,
			page: fm.Page,
			text: text,
			x:    pos.X,
			y:    y,
			size: size,
		})
	}
	return specs
}
