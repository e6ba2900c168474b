package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// Candidate CJK font files, probed in order under the configured font
// directory. The first one that installs wins.
var fontCandidates = []string{
	"NotoSansTC-Regular.ttf",
	"NotoSansCJKtc-Regular.ttf",
	"TaipeiSansTCBeta-Regular.ttf",
	"kaiu.ttf",
	"msjh.ttf",
}

// fallbackFont is the built-in Latin font used when no CJK font is
// available. Non-ASCII text degrades to placeholder glyphs instead of
// failing the render.
const fallbackFont = "Helvetica"

// fontChoice is the outcome of font resolution. Path is empty for the
// built-in fallback; Name is the name stamps reference the font by.
type fontChoice struct {
	Name string
	Path string
}

func (f fontChoice) isFallback() bool {
	return f.Path == ""
}

// resolveFont installs the first available candidate as a pdfcpu user font
// (for text stamps) and hands its path to the receipt builder for embedding.
// Installation failures are logged and the next candidate is tried.
func resolveFont(fontDir string, logger *zap.Logger) fontChoice {
	if fontDir == "" {
		return fontChoice{Name: fallbackFont}
	}
	for _, cand := range fontCandidates {
		path := filepath.Join(fontDir, cand)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := api.InstallFonts([]string{path}); err != nil {
			logger.Warn("font install failed",
				zap.String("font", path),
				zap.Error(err))
			continue
		}
		return fontChoice{
			Name: strings.TrimSuffix(cand, filepath.Ext(cand)),
			Path: path,
		}
	}
	return fontChoice{Name: fallbackFont}
}
