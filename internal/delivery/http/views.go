package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pricelens/web/internal/chart"
	"github.com/pricelens/web/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views renders screens to HTML
type Views struct {
	templates *template.Template
	policy    *bluemonday.Policy
}

type pageView struct {
	Lang         string
	Variant      string
	Variants     []usecase.Variant
	L            usecase.Locale
	S            usecase.Screen
	Results      template.HTML
	ResultsClass string
	Chart        template.HTML
}

// NewViews parses the embedded templates
func NewViews() (*Views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Views{templates: tmpl, policy: resultsPolicy()}, nil
}

// resultsPolicy allows exactly the markup the result fragments produce
func resultsPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "h5", "p", "strong", "br", "span", "a", "img", "table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowDataAttributes()
	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderResults renders the results container for the screen's variant
func (v *Views) RenderResults(locale usecase.Locale, screen usecase.Screen) (template.HTML, error) {
	var buf bytes.Buffer
	data := pageView{L: locale, S: screen}
	if err := v.templates.ExecuteTemplate(&buf, string(locale.Variant), data); err != nil {
		return "", fmt.Errorf("failed to render results: %w", err)
	}
	return template.HTML(v.policy.SanitizeBytes(buf.Bytes())), nil
}

// RenderPage renders the full page shell around the screen
func (v *Views) RenderPage(w io.Writer, locale usecase.Locale, screen usecase.Screen) error {
	results, err := v.RenderResults(locale, screen)
	if err != nil {
		return err
	}

	data := pageView{
		Lang:     locale.Language.String(),
		Variant:  string(locale.Variant),
		Variants: usecase.Variants(),
		L:        locale,
		S:        screen,
		Results:  results,
		Chart:    chartMarkup(screen.Chart),
	}
	if locale.Variant == usecase.VariantCards {
		data.ResultsClass = "row"
	}

	return v.templates.ExecuteTemplate(w, "layout", data)
}

func chartMarkup(h chart.Handle) template.HTML {
	if svg, ok := h.(*chart.SVGHandle); ok {
		return svg.Markup()
	}
	return ""
}
