package services

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driven"
)

//go:embed templates/panel.html
var templateFS embed.FS

var panelTemplate = template.Must(template.ParseFS(templateFS, "templates/panel.html"))

// Viewer library layout below the library directory.
var (
	libStyles  = [][]string{{"web", "viewer.css"}, {"controller.css"}}
	libScripts = [][]string{{"build", "pdf.mjs"}, {"web", "viewer.mjs"}}
	libLocale  = []string{"web", "locale", "locale.json"}
	libCMaps   = []string{"web", "cmaps"}
	libFonts   = []string{"web", "standard_fonts"}
)

type panelPage struct {
	Title           string
	LocaleURL       string
	StyleURLs       []string
	ScriptURLs      []string
	HighlightColors string
}

func libURL(panel driven.Panel, libDir string, parts []string) string {
	return panel.AsResourceURL(filepath.Join(append([]string{libDir}, parts...)...))
}

// renderPanelHTML renders the page hosting the viewer, with every library
// resource resolved through the panel.
func renderPanelHTML(panel driven.Panel, libDir, title string, colors []domain.HighlightColor) (string, error) {
	page := panelPage{
		Title:           title,
		LocaleURL:       libURL(panel, libDir, libLocale),
		HighlightColors: domain.FormatHighlightColors(colors),
	}
	for _, p := range libStyles {
		page.StyleURLs = append(page.StyleURLs, libURL(panel, libDir, p))
	}
	for _, p := range libScripts {
		page.ScriptURLs = append(page.ScriptURLs, libURL(panel, libDir, p))
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render panel html: %w", err)
	}
	return buf.String(), nil
}
