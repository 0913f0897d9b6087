// Package view renders the dashboard stat cards and per-book reading
// timeline. All rendering is a pure function of its input: the server
// hands over a summary or a book record and gets HTML back.
package view

import "html/template"

// Icon glyphs keyed by name. Unknown names fall back to defaultIcon so a
// card never renders without a glyph.
var icons = map[string]template.HTML{
	"book":  `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor"><path d="M4 19.5A2.5 2.5 0 0 1 6.5 17H20V2H6.5A2.5 2.5 0 0 0 4 4.5v15z"/></svg>`,
	"check": `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor"><path d="M22 11.08V12a10 10 0 1 1-5.93-9.14"/><path d="M22 4 12 14.01l-3-3"/></svg>`,
	"flame": `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor"><path d="M8.5 14.5A2.5 2.5 0 0 0 11 12c0-1.38-.5-2-1-3 2.5.5 5 2.52 5 6a5 5 0 1 1-10 0c0-1.57.67-2.97 1.5-4 0 1.5.5 3.5 2 3.5z"/></svg>`,
	"clock": `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor"><circle cx="12" cy="12" r="10"/><path d="M12 6v6l4 2"/></svg>`,
}

var defaultIcon = template.HTML(`<svg viewBox="0 0 24 24" fill="none" stroke="currentColor"><circle cx="12" cy="12" r="9"/></svg>`)

// Glyph returns the icon for name, or the default glyph when the name is
// not in the registry.
func Glyph(name string) template.HTML {
	if g, ok := icons[name]; ok {
		return g
	}
	return defaultIcon
}
