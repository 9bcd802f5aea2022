package layout

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/presslayer/layoutkit/pkg/types"
)

// rawTree is the intermediate parse product before variant classification.
type rawTree struct {
	name     string
	attrs    []Attr
	text     string
	children []*rawTree
}

// Parse decodes value into a Document.
//
// The value is decoded from any BOM-marked encoding first (UTF-8/UTF-16
// byte order marks are common on field values that crossed an HTTP or file
// boundary), then tokenized. Malformed input fails with a typed parse
// error; callers must not attempt a write after a parse failure.
func Parse(value string) (*Document, error) {
	decoded, err := decodeValue(value)
	if err != nil {
		return nil, parseError("decode layout field value", err)
	}
	root, err := parseTree(decoded)
	if err != nil {
		return nil, parseError("parse layout definition", err)
	}
	return documentFromRaw(root), nil
}

// decodeValue strips a leading byte order mark and transcodes UTF-16 input
// to UTF-8. BOM-less input passes through unchanged.
func decodeValue(value string) (string, error) {
	out, _, err := transform.String(unicode.BOMOverride(unicode.UTF8.NewDecoder()), value)
	if err != nil {
		return "", err
	}
	return out, nil
}

func parseError(msg string, err error) error {
	return &types.Error{Kind: types.ErrKindParse, Msg: msg, Err: err}
}

// parseTree tokenizes input into a rawTree. Comments, directives, and
// processing instructions are dropped; whitespace-only character data is
// insignificant in this format and dropped as well.
func parseTree(input string) (*rawTree, error) {
	dec := xml.NewDecoder(strings.NewReader(input))

	var (
		root   *rawTree
		stack  []*rawTree
		scopes []nsScope
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := nsScope(nil)
			if len(scopes) > 0 {
				parent = scopes[len(scopes)-1]
			}
			ns := parent.declare(t.Attr)

			el := &rawTree{name: ns.elementName(t.Name)}
			for _, a := range t.Attr {
				el.attrs = append(el.attrs, Attr{Name: ns.attrName(a.Name), Value: a.Value})
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("layout: multiple root elements")
				}
				root = el
			} else {
				top := stack[len(stack)-1]
				top.children = append(top.children, el)
			}
			stack = append(stack, el)
			scopes = append(scopes, ns)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if s := string(t); strings.TrimSpace(s) != "" {
				top := stack[len(stack)-1]
				top.text += s
			}
		}
	}

	if root == nil {
		return nil, errors.New("layout: no root element")
	}
	return root, nil
}

// nsScope maps namespace URIs to the prefixes that declared them, so parsed
// names can be re-qualified the way the input wrote them. The decoder hands
// back URIs; canonical output wants prefixes.
type nsScope map[string]string

// declare returns the scope for an element carrying attrs, extending the
// parent scope with any xmlns declarations found. The parent scope is never
// mutated.
func (ns nsScope) declare(attrs []xml.Attr) nsScope {
	out := ns
	grown := false
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		default:
			continue
		}
		if !grown {
			out = make(nsScope, len(ns)+1)
			for k, v := range ns {
				out[k] = v
			}
			grown = true
		}
		out[a.Value] = prefix
	}
	return out
}

func (ns nsScope) elementName(n xml.Name) string {
	return ns.qualify(n)
}

func (ns nsScope) attrName(n xml.Name) string {
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return ns.qualify(n)
}

// qualify reconstructs the prefixed name the input wrote. The decoder
// resolves declared prefixes to their URIs but passes undeclared prefixes
// through verbatim in Space, so both forms must map back.
func (ns nsScope) qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if p, ok := ns[n.Space]; ok {
		if p == "" {
			return n.Local
		}
		return p + ":" + n.Local
	}
	if !strings.ContainsAny(n.Space, ":/") {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

// documentFromRaw classifies the parsed tree into typed variants. Members
// that do not match the expected shape at their position stay raw and are
// skipped by iteration, never treated as errors.
func documentFromRaw(root *rawTree) *Document {
	doc := &Document{Name: root.name, Attrs: root.attrs}
	for _, c := range root.children {
		if c.name == elemDevice {
			doc.Nodes = append(doc.Nodes, deviceFromRaw(c))
		} else {
			doc.Nodes = append(doc.Nodes, rawFromRaw(c))
		}
	}
	return doc
}

func deviceFromRaw(t *rawTree) *Device {
	d := &Device{Attrs: t.attrs, Text: t.text}
	for _, c := range t.children {
		if c.name == elemRendering {
			d.Nodes = append(d.Nodes, renderingFromRaw(c))
		} else {
			d.Nodes = append(d.Nodes, rawFromRaw(c))
		}
	}
	return d
}

func renderingFromRaw(t *rawTree) *Rendering {
	r := &Rendering{Attrs: t.attrs, Text: t.text}
	for _, c := range t.children {
		r.Children = append(r.Children, rawFromRaw(c))
	}
	return r
}

func rawFromRaw(t *rawTree) *RawElement {
	el := &RawElement{Name: t.name, Attrs: t.attrs, Text: t.text}
	for _, c := range t.children {
		el.Children = append(el.Children, rawFromRaw(c))
	}
	return el
}
