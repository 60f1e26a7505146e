// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns page blocks into HTML. Dispatch is a table from
// component type to template; a block whose type has no entry renders as a
// visible placeholder so one bad block never blanks the page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/landkit/internal/component"
	"github.com/olegiv/landkit/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Viewport is the preview width a page is laid out for.
type Viewport string

// Viewports
const (
	Desktop Viewport = "desktop"
	Mobile  Viewport = "mobile"
)

// ParseViewport maps a query value to a Viewport, defaulting to Desktop.
func ParseViewport(s string) Viewport {
	if s == string(Mobile) {
		return Mobile
	}
	return Desktop
}

// dispatch maps each registered variant to its template.
var dispatch = map[component.Type]string{
	component.TypeHero:         "hero",
	component.TypeFeatures:     "features",
	component.TypeTestimonials: "testimonials",
	component.TypePricing:      "pricing",
	component.TypeCTA:          "cta",
	component.TypeContact:      "contact",
	component.TypeText:         "text",
	component.TypeImage:        "image",
	component.TypeVideo:        "video",
	component.TypeSpacer:       "spacer",
}

// Dispatcher renders blocks and whole pages.
type Dispatcher struct {
	templates *template.Template
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
	brandURL  string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBrandURL sets the link of the "Built with landkit" footer.
func WithBrandURL(url string) Option {
	return func(d *Dispatcher) { d.brandURL = url }
}

// New parses the embedded templates.
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		brandURL: "/",
	}
	for _, opt := range opts {
		opt(d)
	}

	tmpl, err := template.New("").Funcs(d.templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing block templates: %w", err)
	}
	for typ, name := range dispatch {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("no template %q for block type %s", name, typ)
		}
	}
	d.templates = tmpl
	return d, nil
}

// blockView is the data handed to a block template.
type blockView struct {
	ID      string
	Data    component.Payload
	Theme   model.Theme
	Mobile  bool
	Columns int
}

type placeholderView struct {
	ID      string
	Message string
}

// Render renders a single block. It depends only on its arguments and
// never fails: unknown types and undecodable payloads yield a placeholder.
func (d *Dispatcher) Render(b model.Block, theme model.Theme, vp Viewport) template.HTML {
	name, ok := dispatch[b.Type]
	if !ok {
		return d.placeholder(b.ID, fmt.Sprintf("Unknown component type: %s", b.Type))
	}
	if !b.IsKnown() || b.Data.ComponentType() != b.Type {
		return d.placeholder(b.ID, "Invalid component data")
	}

	view := blockView{
		ID:      b.ID,
		Data:    b.Data,
		Theme:   theme,
		Mobile:  vp == Mobile,
		Columns: columns(b.Data, vp),
	}

	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, name, view); err != nil {
		return d.placeholder(b.ID, "Invalid component data")
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}

func (d *Dispatcher) placeholder(id, msg string) template.HTML {
	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, "placeholder", placeholderView{ID: id, Message: msg}); err != nil {
		return template.HTML(`<div class="lk-placeholder"></div>`)
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}

// RenderBlocks renders every block of p in order.
func (d *Dispatcher) RenderBlocks(p model.Page, vp Viewport) []template.HTML {
	out := make([]template.HTML, len(p.Blocks))
	for i, b := range p.Blocks {
		out[i] = d.Render(b, p.Theme, vp)
	}
	return out
}

// PageData holds the data of the page layout.
type PageData struct {
	Title       string
	Description string
	Theme       model.Theme
	Viewport    Viewport
	Blocks      []template.HTML
	ShowBrand   bool
	BrandURL    string
	Preview     bool
}

// RenderPage writes a complete HTML document for p. The branding footer is
// shown unless the page opted out of it. Preview marks a draft view for
// the owner.
func (d *Dispatcher) RenderPage(w io.Writer, p model.Page, vp Viewport, preview bool) error {
	data := PageData{
		Title:       p.Title,
		Description: p.Description,
		Theme:       p.Theme,
		Viewport:    vp,
		Blocks:      d.RenderBlocks(p, vp),
		ShowBrand:   !p.Settings.RemoveBranding,
		BrandURL:    d.brandURL,
		Preview:     preview,
	}

	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// columns returns the grid column count for list-style blocks. Mobile
// always collapses to a single column.
func columns(p component.Payload, vp Viewport) int {
	if vp == Mobile {
		return 1
	}
	switch v := p.(type) {
	case component.FeaturesData:
		if v.Columns > 0 {
			return v.Columns
		}
		return 3
	case component.PricingData:
		return clamp(len(v.Plans), 1, 4)
	case component.TestimonialsData:
		return clamp(len(v.Testimonials), 1, 3)
	}
	return 1
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
