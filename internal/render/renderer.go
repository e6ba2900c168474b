// Package render turns a claim package into a filled application PDF. The
// pipeline is strictly linear: resolve template, resolve font, stamp
// metadata, build the data dictionary, fill (AcroForm, coordinate map or
// passthrough), append the optional receipt page and number the pages. Only
// a missing template is fatal; every other failure degrades with a warning.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	claimmodel "github.com/rickwengdev/claimform/internal/model"
)

// ErrTemplateNotFound is the renderer's only fatal condition: none of the
// template candidates exist under the configured directory.
var ErrTemplateNotFound = errors.New("template not found")

// templateCandidates are probed in order under TemplateDir; the first
// existing file wins.
var templateCandidates = []string{
	"application_form.pdf",
	"injury_benefit_application.pdf",
	"template.pdf",
}

// FillMode selects the form-filling strategy for templates with interactive
// fields.
type FillMode string

const (
	// FillAuto uses the exact contract when the template carries contract
	// field names and falls back to inference otherwise.
	FillAuto FillMode = "auto"
	// FillExact assumes the standardized field-name contract.
	FillExact FillMode = "exact"
	// FillGuess maps discovered field names through the inference rules.
	FillGuess FillMode = "guess"
)

// Options are the caller-supplied knobs for one render.
type Options struct {
	Title       string
	ShowReceipt bool
	FillMode    FillMode
}

// DefaultOptions returns the documented defaults: receipt on, auto fill.
func DefaultOptions() Options {
	return Options{ShowReceipt: true, FillMode: FillAuto}
}

// Renderer renders claim packages against a template directory. It holds no
// mutable state across calls; concurrent renders are independent.
type Renderer struct {
	templateDir     string
	fontDir         string
	fieldMapPath    string
	maxTemplateSize int64
	logger          *zap.Logger
	now             func() time.Time
}

// New builds a Renderer. maxTemplateSize caps the template file size in
// bytes; zero or negative disables the cap. A nil logger disables
// diagnostics.
func New(templateDir, fontDir, fieldMapPath string, maxTemplateSize int64, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		templateDir:     templateDir,
		fontDir:         fontDir,
		fieldMapPath:    fieldMapPath,
		maxTemplateSize: maxTemplateSize,
		logger:          logger,
		now:             time.Now,
	}
}

// Render produces the filled PDF for one claim package. The returned Report
// carries per-field results and non-fatal warnings; it is valid whenever the
// error is nil.
func (r *Renderer) Render(ctx context.Context, pkg claimmodel.ClaimPackage, opts Options) ([]byte, *Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if opts.FillMode == "" {
		opts.FillMode = FillAuto
	}
	rep := &Report{}

	templateBytes, templatePath, err := r.loadTemplate()
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("template resolved", zap.String("path", templatePath))

	font := resolveFont(r.fontDir, r.logger)
	if font.isFallback() {
		rep.warnf("no CJK font available, falling back to %s", fallbackFont)
		r.logger.Warn("no CJK font available", zap.String("fallback", fallbackFont))
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pctx, err := api.ReadContext(bytes.NewReader(templateBytes), conf)
	if err != nil {
		return nil, nil, fmt.Errorf("read template %s: %w", templatePath, err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return nil, nil, fmt.Errorf("page count for %s: %w", templatePath, err)
	}

	if err := r.setDocumentInfo(pctx, opts.Title); err != nil {
		rep.warnf("metadata not written: %v", err)
		r.logger.Warn("metadata not written", zap.Error(err))
	}

	dict := BuildDict(pkg)

	idx, err := loadFieldIndex(pctx)
	if err != nil {
		rep.warnf("field index unavailable: %v", err)
		idx = &fieldIndex{byName: map[string]*fieldHandle{}}
	}

	var current []byte
	switch {
	case !idx.empty():
		rep.Strategy = "acroform"
		idx.setNeedAppearances()
		if r.pickMode(opts.FillMode, idx) == FillExact {
			fillExact(idx, dict, rep)
		} else {
			fillGuess(idx, dict, rep)
		}
		current, err = serialize(pctx)
		if err != nil {
			return nil, nil, fmt.Errorf("serialize filled form: %w", err)
		}

	default:
		// No interactive fields: serialize the (metadata-bearing) template
		// and try the coordinate map.
		current, err = serialize(pctx)
		if err != nil {
			return nil, nil, fmt.Errorf("serialize template: %w", err)
		}
		current = r.applyFieldMap(current, pctx, dict, font, conf, rep)
	}

	if opts.ShowReceipt {
		receipt, err := buildReceipt(dict, font, r.now())
		if err != nil {
			rep.warnf("receipt page not appended: %v", err)
			r.logger.Warn("receipt page not appended", zap.Error(err))
		} else {
			merged, err := mergeDocuments(current, receipt, conf)
			if err != nil {
				rep.warnf("receipt page not appended: %v", err)
				r.logger.Warn("receipt merge failed", zap.Error(err))
			} else {
				current = merged
			}
		}
	}

	numbered, err := stampPageNumbers(current, conf)
	if err != nil {
		rep.warnf("page numbers not stamped: %v", err)
		r.logger.Warn("page numbering failed", zap.Error(err))
	} else {
		current = numbered
	}

	r.logger.Debug("render complete",
		zap.String("strategy", rep.Strategy),
		zap.Int("filled", rep.FilledCount()),
		zap.Int("skipped", rep.SkippedCount()),
		zap.Int("warnings", len(rep.Warnings)))

	return current, rep, nil
}

// loadTemplate returns the first candidate that exists under TemplateDir,
// enforcing the configured size cap before reading.
func (r *Renderer) loadTemplate() ([]byte, string, error) {
	for _, cand := range templateCandidates {
		path := filepath.Join(r.templateDir, cand)
		fi, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", fmt.Errorf("stat template %s: %w", path, err)
		}
		if r.maxTemplateSize > 0 && fi.Size() > r.maxTemplateSize {
			return nil, "", fmt.Errorf("template %s is %d bytes, exceeds maximum size %d bytes",
				path, fi.Size(), r.maxTemplateSize)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read template %s: %w", path, err)
		}
		return data, path, nil
	}
	return nil, "", fmt.Errorf("%w: no candidate in %s", ErrTemplateNotFound, r.templateDir)
}

// pickMode resolves FillAuto by probing for contract field names.
func (r *Renderer) pickMode(mode FillMode, idx *fieldIndex) FillMode {
	if mode != FillAuto {
		return mode
	}
	for _, sentinel := range []string{"name", "id_number", "eligibility_criteria_0"} {
		if _, ok := idx.byName[sentinel]; ok {
			return FillExact
		}
	}
	return FillGuess
}

// setDocumentInfo replaces the Info dictionary with title, author and
// creation date. Best effort; callers treat failure as a warning.
func (r *Renderer) setDocumentInfo(pctx *model.Context, title string) error {
	if title == "" {
		title = "勞工職業災害保險傷病給付申請書"
	}
	info := types.Dict{
		"Title":        utf16HexLiteral(title),
		"Author":       utf16HexLiteral("claimform"),
		"Producer":     types.StringLiteral("claimform"),
		"CreationDate": types.StringLiteral(types.DateString(r.now())),
	}
	ir, err := pctx.IndRefForNewObject(info)
	if err != nil {
		return err
	}
	pctx.Info = ir
	return nil
}

// applyFieldMap runs the coordinate-map fallback. Any failure leaves the
// unfilled template in place with a warning: a blank form beats no form.
func (r *Renderer) applyFieldMap(current []byte, pctx *model.Context, dict Dict, font fontChoice, conf *model.Configuration, rep *Report) []byte {
	if r.fieldMapPath == "" {
		rep.Strategy = "passthrough"
		rep.warnf("template has no form fields and no field map is configured")
		return current
	}
	fm, err := LoadFieldMap(r.fieldMapPath)
	if err != nil {
		rep.Strategy = "passthrough"
		rep.warnf("field map unusable: %v", err)
		r.logger.Warn("field map unusable", zap.Error(err))
		return current
	}
	rep.Strategy = "fieldmap"

	height := pageHeight(pctx, fm.Page)
	stamped, err := stampFields(current, fm.stamps(dict, height), font, conf, rep)
	if err != nil {
		rep.warnf("coordinate rendering failed: %v", err)
		r.logger.Warn("coordinate rendering failed", zap.Error(err))
		return current
	}
	return stamped
}

// pageHeight looks up the height of a 1-based page, defaulting to A4.
func pageHeight(pctx *model.Context, page int) float64 {
	dims, err := pctx.PageDims()
	if err != nil || page < 1 || page > len(dims) {
		return 842 // A4 in points
	}
	return dims[page-1].Height
}

// stampFields draws each spec as an absolutely positioned text watermark on
// its page. Individual stamp construction failures skip that field only.
func stampFields(in []byte, specs []stampSpec, font fontChoice, conf *model.Configuration, rep *Report) ([]byte, error) {
	if len(specs) == 0 {
		return in, nil
	}
	m := map[int][]*model.Watermark{}
	for _, spec := range specs {
		desc := fmt.Sprintf(
			"fontname:%s, points:%.2f, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, opacity:1, fillcolor:#000000",
			font.Name, spec.size, spec.x, spec.y)
		wm, err := api.TextWatermark(spec.text, desc, true, false, types.POINTS)
		if err != nil {
			rep.skipped(spec.key, fmt.Sprintf("stamp rejected: %v", err))
			continue
		}
		m[spec.page] = append(m[spec.page], wm)
	}
	if len(m) == 0 {
		return in, nil
	}
	var buf bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(in), &buf, m, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stampPageNumbers adds the "i / N" footer to every page, receipt included.
// Page numbers are plain digits, so the built-in Latin font always suffices.
func stampPageNumbers(in []byte, conf *model.Configuration) ([]byte, error) {
	desc := fmt.Sprintf(
		"fontname:%s, points:10, scalefactor:1 abs, position:bc, offset:0 14, rotation:0, opacity:1, fillcolor:#000000",
		fallbackFont)
	wm, err := api.TextWatermark("%p / %P", desc, true, false, types.POINTS)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(in), &buf, nil, wm, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mergeDocuments appends b behind a.
func mergeDocuments(a, b []byte, conf *model.Configuration) ([]byte, error) {
	var buf bytes.Buffer
	readers := []io.ReadSeeker{bytes.NewReader(a), bytes.NewReader(b)}
	if err := api.MergeRaw(readers, &buf, false, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func serialize(pctx *model.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(pctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
