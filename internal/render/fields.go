package render

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fieldKind classifies an AcroForm field by its FT entry.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldCheckBox
	fieldOther
)

// fieldHandle is one resolved AcroForm field: its dictionary plus the widget
// annotation dictionaries carrying its appearance state. For merged
// field/widget dictionaries both point at the same dict.
type fieldHandle struct {
	name    string
	kind    fieldKind
	dict    types.Dict
	widgets []types.Dict
	onState string // checkbox appearance state meaning "checked"
}

// fieldIndex resolves every field name exactly once at template-load time,
// replacing name-lookup-by-trial against the form dictionary. Lookups after
// that are map hits.
type fieldIndex struct {
	byName map[string]*fieldHandle
	acro   types.Dict
}

// loadFieldIndex walks Catalog -> AcroForm -> Fields and indexes every
// terminal field by its fully qualified name. A document without an AcroForm
// yields an empty, usable index.
func loadFieldIndex(ctx *model.Context) (*fieldIndex, error) {
	idx := &fieldIndex{byName: map[string]*fieldHandle{}}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return idx, nil
	}
	acroDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroDict == nil {
		return idx, nil
	}
	idx.acro = acroDict

	fieldsObj, found := acroDict.Find("Fields")
	if !found {
		return idx, nil
	}
	fieldsArr, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("dereference Fields array: %w", err)
	}

	for _, ref := range fieldsArr {
		if err := idx.walkField(ctx, ref, ""); err != nil {
			// A single malformed field must not abort index construction.
			continue
		}
	}
	return idx, nil
}

// walkField indexes one field dictionary, recursing into Kids that are
// themselves fields (they carry a T entry). Kids without T are widget
// annotations of the current field.
func (idx *fieldIndex) walkField(ctx *model.Context, fieldObj types.Object, prefix string) error {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return fmt.Errorf("dereference field: %w", err)
	}

	name := prefix
	if nameObj, found := fieldDict.Find("T"); found {
		if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			if name != "" {
				name += "." + partial
			} else {
				name = partial
			}
		}
	}

	kids, hasFieldKids := fieldKids(ctx, fieldDict)
	if hasFieldKids {
		for _, kid := range kids {
			_ = idx.walkField(ctx, kid, name)
		}
		return nil
	}

	if name == "" {
		return nil
	}

	h := &fieldHandle{
		name:    name,
		kind:    resolveFieldKind(ctx, fieldDict),
		dict:    fieldDict,
		widgets: widgetDicts(ctx, fieldDict),
	}
	if h.kind == fieldCheckBox {
		h.onState = checkBoxOnState(ctx, h)
	}
	idx.byName[name] = h
	return nil
}

// fieldKids returns the Kids entries when at least one kid is itself a named
// field; widget-only Kids arrays report false.
func fieldKids(ctx *model.Context, fieldDict types.Dict) ([]types.Object, bool) {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil, false
	}
	kidsArr, err := ctx.DereferenceArray(kidsObj)
	if err != nil || len(kidsArr) == 0 {
		return nil, false
	}
	for _, kid := range kidsArr {
		if kidDict, err := ctx.DereferenceDict(kid); err == nil && kidDict != nil {
			if _, hasName := kidDict.Find("T"); hasName {
				return kidsArr, true
			}
		}
	}
	return nil, false
}

// widgetDicts collects the annotation dictionaries carrying the field's
// appearance: the Kids when present, otherwise the merged field dict itself.
func widgetDicts(ctx *model.Context, fieldDict types.Dict) []types.Dict {
	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return []types.Dict{fieldDict}
	}
	kidsArr, err := ctx.DereferenceArray(kidsObj)
	if err != nil || len(kidsArr) == 0 {
		return []types.Dict{fieldDict}
	}
	widgets := make([]types.Dict, 0, len(kidsArr))
	for _, kid := range kidsArr {
		if kidDict, err := ctx.DereferenceDict(kid); err == nil && kidDict != nil {
			widgets = append(widgets, kidDict)
		}
	}
	if len(widgets) == 0 {
		return []types.Dict{fieldDict}
	}
	return widgets
}

// resolveFieldKind reads FT, consulting Parent for inherited types.
func resolveFieldKind(ctx *model.Context, fieldDict types.Dict) fieldKind {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return resolveFieldKind(ctx, parentDict)
			}
		}
		return fieldOther
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return fieldOther
	}

	switch ftName {
	case "Tx":
		return fieldText
	case "Btn":
		// Radio (bit 16) and pushbutton (bit 17) flags exclude plain
		// checkboxes.
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if *flags&(1<<15) != 0 || *flags&(1<<16) != 0 {
					return fieldOther
				}
			}
		}
		return fieldCheckBox
	default:
		return fieldOther
	}
}

// checkBoxOnState finds the appearance-state name meaning "checked" by
// scanning the widget's normal appearance subdictionary for the smallest
// state name that is not Off. Map iteration order must not leak into the
// pick. Templates without appearance streams default to Yes.
func checkBoxOnState(ctx *model.Context, h *fieldHandle) string {
	for _, w := range h.widgets {
		apObj, found := w.Find("AP")
		if !found {
			continue
		}
		apDict, err := ctx.DereferenceDict(apObj)
		if err != nil || apDict == nil {
			continue
		}
		nObj, found := apDict.Find("N")
		if !found {
			continue
		}
		nDict, err := ctx.DereferenceDict(nObj)
		if err != nil || nDict == nil {
			continue
		}
		states := make([]string, 0, len(nDict))
		for state := range nDict {
			if state != "Off" {
				states = append(states, state)
			}
		}
		if len(states) > 0 {
			sort.Strings(states)
			return states[0]
		}
	}
	return "Yes"
}

// textField returns the handle for a named text field.
func (idx *fieldIndex) textField(name string) (*fieldHandle, bool) {
	h, ok := idx.byName[name]
	if !ok || h.kind != fieldText {
		return nil, false
	}
	return h, true
}

// checkBox returns the handle for a named checkbox field.
func (idx *fieldIndex) checkBox(name string) (*fieldHandle, bool) {
	h, ok := idx.byName[name]
	if !ok || h.kind != fieldCheckBox {
		return nil, false
	}
	return h, true
}

// empty reports whether the template exposes no usable interactive fields.
func (idx *fieldIndex) empty() bool {
	return len(idx.byName) == 0
}

// setNeedAppearances asks viewers to regenerate field appearances, which
// lets us fill values without rebuilding appearance streams (and without
// embedding a font for every filled field).
func (idx *fieldIndex) setNeedAppearances() {
	if idx.acro != nil {
		idx.acro["NeedAppearances"] = types.Boolean(true)
	}
}

// setText writes value into a text field as a UTF-16BE hex literal and drops
// any stale appearance stream so NeedAppearances takes effect.
func (h *fieldHandle) setText(value string) {
	h.dict["V"] = utf16HexLiteral(value)
	for _, w := range h.widgets {
		delete(w, "AP")
	}
}

// setCheckBox flips a checkbox to its on-state or to Off, updating both the
// field value and every widget's appearance state so no stale checked state
// survives from a reused template.
func (h *fieldHandle) setCheckBox(on bool) {
	state := "Off"
	if on {
		state = h.onState
	}
	h.dict["V"] = types.Name(state)
	for _, w := range h.widgets {
		w["AS"] = types.Name(state)
	}
}

// utf16HexLiteral encodes a Go string as a BOM-prefixed UTF-16BE PDF hex
// literal, the portable text encoding for non-Latin field values.
func utf16HexLiteral(s string) types.HexLiteral {
	codes := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 2+2*len(codes))
	buf = append(buf, 0xFE, 0xFF)
	for _, c := range codes {
		buf = append(buf, byte(c>>8), byte(c))
	}
	return types.HexLiteral(strings.ToUpper(hex.EncodeToString(buf)))
}
