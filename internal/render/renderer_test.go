package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTemplate(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "application_form.pdf"), data, 0o600))
	return dir
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)
	}
}

func outputPageCount(t *testing.T, data []byte) int {
	t.Helper()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())
	return ctx.PageCount
}

func TestRenderTemplateNotFound(t *testing.T) {
	r := New(t.TempDir(), "", "", 0, zap.NewNop())

	_, _, err := r.Render(context.Background(), samplePackage(), DefaultOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestRenderTemplateTooLarge(t *testing.T) {
	template := buildFormPDF(t, contractWidgets())
	dir := writeTemplate(t, template)
	r := New(dir, "", "", int64(len(template))-1, zap.NewNop())

	_, _, err := r.Render(context.Background(), samplePackage(), DefaultOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")

	// A limit at least the template size admits it.
	r = New(dir, "", "", int64(len(template)), zap.NewNop())
	_, _, err = r.Render(context.Background(), samplePackage(), DefaultOptions())
	assert.NoError(t, err)
}

func TestRenderAcroFormExact(t *testing.T) {
	dir := writeTemplate(t, buildFormPDF(t, contractWidgets()))
	r := New(dir, "", "", 0, zap.NewNop())
	r.now = fixedClock()

	out, rep, err := r.Render(context.Background(), samplePackage(), DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.Equal(t, "acroform", rep.Strategy)
	assert.Greater(t, rep.FilledCount(), 0)

	// Template page plus the receipt page.
	assert.Equal(t, 2, outputPageCount(t, out))

	// Field values survive serialization, stamping and merge.
	ctx := readFixtureContext(t, out)
	idx, err := loadFieldIndex(ctx)
	require.NoError(t, err)

	h, ok := idx.textField("name")
	require.True(t, ok)
	v, found := h.dict.Find("V")
	require.True(t, found)
	name, err := ctx.DereferenceStringOrHexLiteral(v, model.V10, nil)
	require.NoError(t, err)
	assert.Equal(t, "王小明", name)

	// Single-select group: exactly the stored code's box is on.
	for i, want := range []string{"Off", "Yes", "Off", "Off"} {
		cb, ok := idx.checkBox(fmt.Sprintf("eligibility_criteria_%d", i))
		require.True(t, ok)
		v, found := cb.dict.Find("V")
		require.True(t, found)
		state, err := ctx.DereferenceName(v, model.V10, nil)
		require.NoError(t, err)
		assert.Equal(t, want, string(state), "eligibility_criteria_%d", i)
	}
}

func TestRenderWithoutReceipt(t *testing.T) {
	dir := writeTemplate(t, buildFormPDF(t, contractWidgets()))
	r := New(dir, "", "", 0, zap.NewNop())
	r.now = fixedClock()

	opts := DefaultOptions()
	opts.ShowReceipt = false
	out, _, err := r.Render(context.Background(), samplePackage(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, outputPageCount(t, out))
}

func TestRenderFieldMapFallback(t *testing.T) {
	fieldMapPath := writeFieldMap(t, `{
		"page": 1,
		"origin": "top-left",
		"fontSize": 10,
		"fields": {
			"name":           {"x": 120, "y": 150},
			"application_id": {"x": 400, "y": 80},
			"bank_account":   {"x": 120, "y": 500}
		}
	}`)
	dir := writeTemplate(t, buildPlainPDF(t))
	r := New(dir, "", fieldMapPath, 0, zap.NewNop())
	r.now = fixedClock()

	out, rep, err := r.Render(context.Background(), samplePackage(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "fieldmap", rep.Strategy)
	assert.Equal(t, 2, outputPageCount(t, out))
}

func TestRenderPassthroughWarns(t *testing.T) {
	dir := writeTemplate(t, buildPlainPDF(t))
	r := New(dir, "", "", 0, zap.NewNop())
	r.now = fixedClock()

	opts := DefaultOptions()
	opts.ShowReceipt = false
	out, rep, err := r.Render(context.Background(), samplePackage(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.Equal(t, "passthrough", rep.Strategy)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "no form fields")
}

func TestRenderGuessMode(t *testing.T) {
	dir := writeTemplate(t, buildFormPDF(t, []formWidget{
		{"Applicant_Name", "Tx"},
		{"ZIP_code_1", "Tx"},
		{"totally_unrelated", "Tx"},
	}))
	r := New(dir, "", "", 0, zap.NewNop())
	r.now = fixedClock()

	opts := DefaultOptions()
	opts.FillMode = FillGuess
	opts.ShowReceipt = false
	out, rep, err := r.Render(context.Background(), samplePackage(), opts)
	require.NoError(t, err)

	assert.Equal(t, "acroform", rep.Strategy)

	ctx := readFixtureContext(t, out)
	idx, err := loadFieldIndex(ctx)
	require.NoError(t, err)

	h, ok := idx.textField("Applicant_Name")
	require.True(t, ok)
	v, found := h.dict.Find("V")
	require.True(t, found)
	name, err := ctx.DereferenceStringOrHexLiteral(v, model.V10, nil)
	require.NoError(t, err)
	assert.Equal(t, "王小明", name)

	// The unmatched field stays blank.
	h, ok = idx.textField("totally_unrelated")
	require.True(t, ok)
	_, found = h.dict.Find("V")
	assert.False(t, found)
}

func TestRenderAutoModePicksGuessForUnknownNames(t *testing.T) {
	dir := writeTemplate(t, buildFormPDF(t, []formWidget{
		{"Applicant_Name", "Tx"},
	}))
	r := New(dir, "", "", 0, zap.NewNop())

	opts := DefaultOptions()
	opts.ShowReceipt = false
	out, _, err := r.Render(context.Background(), samplePackage(), opts)
	require.NoError(t, err)

	ctx := readFixtureContext(t, out)
	idx, err := loadFieldIndex(ctx)
	require.NoError(t, err)
	h, ok := idx.textField("Applicant_Name")
	require.True(t, ok)
	_, found := h.dict.Find("V")
	assert.True(t, found, "auto mode fell through to guess and filled the field")
}

func TestRenderIdempotentText(t *testing.T) {
	dir := writeTemplate(t, buildPlainPDF(t))
	fieldMapPath := writeFieldMap(t, `{
		"page": 1,
		"fields": {"application_id": {"x": 400, "y": 80}}
	}`)
	r := New(dir, "", fieldMapPath, 0, zap.NewNop())
	r.now = fixedClock()

	extract := func(data []byte) string {
		reader, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		var sb strings.Builder
		for i := 1; i <= reader.NumPage(); i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			if text, err := page.GetPlainText(nil); err == nil {
				sb.WriteString(text)
			}
		}
		return sb.String()
	}

	a, _, err := r.Render(context.Background(), samplePackage(), DefaultOptions())
	require.NoError(t, err)
	b, _, err := r.Render(context.Background(), samplePackage(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, extract(a), extract(b))
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(t.TempDir(), "", "", 0, zap.NewNop())
	_, _, err := r.Render(ctx, samplePackage(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
