package overlay

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// ChatLine is one message as shown in the chat panel.
type ChatLine struct {
	Role string
	Text string
}

type ChatView struct {
	Open     bool
	Pending  bool
	Messages []ChatLine
}

// Page is the data for the full document served at the site root.
type Page struct {
	View       View
	Chat       ChatView
	StreamRate int
}

// Renderer turns views into HTML. Bio and description text is Markdown.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
	}

	tmpl, err := template.New("overlay").Funcs(template.FuncMap{
		"markdown": r.Markdown,
		"join":     strings.Join,
		"external": externalURL,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing overlay templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Markdown converts src to HTML. Raw HTML in src is not passed through.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderPanel writes the overlay fragment: close button, panel and
// navigation bar.
func (r *Renderer) RenderPanel(w io.Writer, view View) error {
	return r.tmpl.ExecuteTemplate(w, "panel", view)
}

// RenderChat writes the chat widget fragment.
func (r *Renderer) RenderChat(w io.Writer, chat ChatView) error {
	return r.tmpl.ExecuteTemplate(w, "chat", chat)
}

func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", page)
}

// externalURL turns the scheme-less social handles from the content file
// into absolute links.
func externalURL(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}
