package layout

import "strings"

// Serialize emits the canonical string form of the document: no
// insignificant whitespace, attributes in stored order, fixed escaping.
// The output is a normalization fixed point: parsing it and serializing
// again reproduces it byte for byte. Serialize is total for any in-memory
// document.
func (doc *Document) Serialize() string {
	var b strings.Builder
	writeOpen(&b, doc.Name, doc.Attrs, len(doc.Nodes) == 0)
	for _, n := range doc.Nodes {
		writeNode(&b, n)
	}
	if len(doc.Nodes) > 0 {
		writeClose(&b, doc.Name)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Device:
		empty := v.Text == "" && len(v.Nodes) == 0
		writeOpen(b, elemDevice, v.Attrs, empty)
		if empty {
			return
		}
		escapeInto(b, v.Text)
		for _, c := range v.Nodes {
			writeNode(b, c)
		}
		writeClose(b, elemDevice)
	case *Rendering:
		empty := v.Text == "" && len(v.Children) == 0
		writeOpen(b, elemRendering, v.Attrs, empty)
		if empty {
			return
		}
		escapeInto(b, v.Text)
		for _, c := range v.Children {
			writeRaw(b, c)
		}
		writeClose(b, elemRendering)
	case *RawElement:
		writeRaw(b, v)
	}
}

func writeRaw(b *strings.Builder, el *RawElement) {
	empty := el.Text == "" && len(el.Children) == 0
	writeOpen(b, el.Name, el.Attrs, empty)
	if empty {
		return
	}
	escapeInto(b, el.Text)
	for _, c := range el.Children {
		writeRaw(b, c)
	}
	writeClose(b, el.Name)
}

func writeOpen(b *strings.Builder, name string, attrs []Attr, selfClose bool) {
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		escapeInto(b, a.Value)
		b.WriteByte('"')
	}
	if selfClose {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
}

func writeClose(b *strings.Builder, name string) {
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

// escapeInto writes s with the canonical escaping table. Newlines, tabs,
// and carriage returns become character references so attribute-value
// normalization on re-parse cannot alter the value.
func escapeInto(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\n':
			b.WriteString("&#xA;")
		case '\t':
			b.WriteString("&#x9;")
		case '\r':
			b.WriteString("&#xD;")
		default:
			b.WriteRune(r)
		}
	}
}
