package pointcloud

import (
	"html"
	"strings"
)

// Field is one labelled line of a hover overlay.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Overlay is the transient inspection panel shown while a point is hovered.
type Overlay struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Text renders the overlay as plain lines for terminals.
func (o Overlay) Text() string {
	var b strings.Builder
	b.WriteString(o.Title)
	for _, f := range o.Fields {
		b.WriteString("\n  ")
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	return b.String()
}

// HTML renders the overlay body with every value escaped.
func (o Overlay) HTML() string {
	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(html.EscapeString(o.Title))
	b.WriteString("</strong>")
	for _, f := range o.Fields {
		b.WriteString("<span>")
		b.WriteString(html.EscapeString(f.Label))
		b.WriteString(":</span> ")
		b.WriteString(html.EscapeString(f.Value))
		b.WriteString("<br>")
	}
	return b.String()
}
