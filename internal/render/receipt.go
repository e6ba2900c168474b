package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rickwengdev/claimform/internal/rocdate"
)

// buildReceipt renders the synthesized receipt page: applicant name, email,
// claim id, the current ROC date and a blank signature line. Returned as a
// standalone single-page PDF merged behind the filled template.
func buildReceipt(d Dict, font fontChoice, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")

	family := fallbackFont
	sanitize := asciiOnly
	if !font.isFallback() {
		family = "claimform-cjk"
		pdf.AddUTF8Font(family, "", font.Path)
		sanitize = func(s string) string { return s }
	}

	pdf.SetTitle("收執聯", true)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont(family, "", 18)
	pdf.CellFormat(0, 28, sanitize("職災傷病給付申請收執聯 / Receipt"), "", 1, "C", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont(family, "", 12)
	rows := []struct {
		label string
		value string
	}{
		{"申請人 (Applicant)", d.Str("name")},
		{"電子郵件 (Email)", d.Str("email")},
		{"申請編號 (Claim ID)", d.Str("application_id")},
		{"申請日期 (Date)", rocdate.Today(now).Slash()},
	}
	for _, row := range rows {
		pdf.CellFormat(160, 22, sanitize(row.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 22, sanitize(row.value), "", 1, "L", false, 0, "")
	}

	pdf.Ln(48)
	pdf.CellFormat(160, 22, sanitize("簽名 (Signature)"), "", 0, "L", false, 0, "")
	x, y := pdf.GetX(), pdf.GetY()
	pdf.Line(x, y+18, x+220, y+18)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build receipt page: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize receipt page: %w", err)
	}
	return buf.Bytes(), nil
}

// asciiOnly replaces every non-ASCII rune with '?' so the Latin fallback
// font never emits garbage bytes.
func asciiOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r > 0x7E || r < 0x20 {
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}
