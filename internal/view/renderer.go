// Package view renders the task list page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	dom "Tasklist/internal/domain"

	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Lang  string
	L     labels
	Items []dom.Item
}

// Renderer turns an item list into a complete HTML document. Output depends
// only on the items and the negotiated locale.
type Renderer struct {
	tmpl     *template.Template
	fallback language.Tag
}

// NewRenderer parses the page template. locale is used when a request does
// not ask for a supported language.
func NewRenderer(locale string) (*Renderer, error) {
	fallback, err := MatchLocale(locale)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl, fallback: fallback}, nil
}

// Negotiate picks the page locale for an Accept-Language header value.
func (r *Renderer) Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return r.fallback
	}
	return supported[idx]
}

// RenderPage renders items (already ordered) as the task list page.
func (r *Renderer) RenderPage(items []dom.Item, acceptLanguage string) ([]byte, error) {
	tag := r.Negotiate(acceptLanguage)
	data := pageData{
		Lang:  tag.String(),
		L:     labelsFor(tag),
		Items: items,
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.html", data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
