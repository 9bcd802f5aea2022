package layout

// Element names used by the layout definition format. The root element and
// rendering entries share a name; nesting depth disambiguates them.
const (
	elemRoot      = "r"
	elemDevice    = "d"
	elemRendering = "r"
)

// Well-known attribute names on devices and renderings.
const (
	attrID          = "id"
	attrUID         = "uid"
	attrLayout      = "l"
	attrPlaceholder = "ph"
	attrParameters  = "par"
)

// Attr is one element attribute. Order among an element's attributes is
// significant for canonical output and is preserved from parse.
type Attr struct {
	Name  string
	Value string
}

// Node is one member of an ordered child sequence. Exactly three
// implementations exist: *Device, *Rendering, and *RawElement.
type Node interface {
	node()
}

// Document is a parsed layout definition: a root element holding an ordered
// sequence of devices, plus any unrecognized elements carried verbatim.
type Document struct {
	// Name is the root element name. Parsed documents keep whatever the
	// input used; New produces the canonical name.
	Name  string
	Attrs []Attr
	Nodes []Node // *Device or *RawElement
}

// Device is a named target surface grouping an ordered sequence of
// rendering entries.
type Device struct {
	Attrs []Attr
	Text  string // character data, "" for none; kept so passthrough is exact
	Nodes []Node // *Rendering or *RawElement
}

// Rendering is one placed component reference within a device. The
// transformer passes it through opaquely except for deletion; accessors
// expose the common attributes for callers that inspect entries.
type Rendering struct {
	Attrs    []Attr
	Text     string        // character data, "" for none
	Children []*RawElement // rules blocks and other extensions, kept verbatim
}

// RawElement is any element that is not the expected variant at its
// position. It is preserved on serialize and skipped during iteration.
type RawElement struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*RawElement
}

func (*Device) node()     {}
func (*Rendering) node()  {}
func (*RawElement) node() {}

// New returns an empty document with the canonical root element.
func New() *Document {
	return &Document{Name: elemRoot}
}

// Devices returns the typed device entries in document order. The returned
// slice is a snapshot; removing a device from it does not affect the
// document.
func (doc *Document) Devices() []*Device {
	var out []*Device
	for _, n := range doc.Nodes {
		if d, ok := n.(*Device); ok {
			out = append(out, d)
		}
	}
	return out
}

// Walk invokes fn for every rendering entry under every device, in document
// order. A non-nil error from fn stops the walk and is returned. fn must
// not add or remove entries; use the transformer for mutation.
func (doc *Document) Walk(fn func(*Device, *Rendering) error) error {
	for _, n := range doc.Nodes {
		d, ok := n.(*Device)
		if !ok {
			continue
		}
		for _, c := range d.Nodes {
			r, ok := c.(*Rendering)
			if !ok {
				continue
			}
			if err := fn(d, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// attrLookup returns the value of the named attribute, reporting presence.
func attrLookup(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrSet replaces the named attribute's value, appending it when absent.
func attrSet(attrs []Attr, name, value string) []Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}

// ID returns the device's target identifier ("" when absent).
func (d *Device) ID() string {
	v, _ := attrLookup(d.Attrs, attrID)
	return v
}

// LayoutID returns the layout definition the device points at ("" when
// absent, as in delta values that only touch renderings).
func (d *Device) LayoutID() string {
	v, _ := attrLookup(d.Attrs, attrLayout)
	return v
}

// Renderings returns the typed rendering entries in device order. The
// returned slice is a snapshot.
func (d *Device) Renderings() []*Rendering {
	var out []*Rendering
	for _, n := range d.Nodes {
		if r, ok := n.(*Rendering); ok {
			out = append(out, r)
		}
	}
	return out
}

// Attr returns the value of the named attribute, reporting presence.
func (r *Rendering) Attr(name string) (string, bool) {
	return attrLookup(r.Attrs, name)
}

// SetAttr replaces the named attribute's value, adding it when absent.
func (r *Rendering) SetAttr(name, value string) {
	r.Attrs = attrSet(r.Attrs, name, value)
}

// ID returns the referenced component identifier ("" when absent).
func (r *Rendering) ID() string {
	v, _ := attrLookup(r.Attrs, attrID)
	return v
}

// UID returns the entry's unique placement identifier ("" when absent).
func (r *Rendering) UID() string {
	v, _ := attrLookup(r.Attrs, attrUID)
	return v
}

// Placeholder returns the placeholder path the entry is bound to.
func (r *Rendering) Placeholder() string {
	v, _ := attrLookup(r.Attrs, attrPlaceholder)
	return v
}

// Parameters returns the entry's rendering parameter string.
func (r *Rendering) Parameters() string {
	v, _ := attrLookup(r.Attrs, attrParameters)
	return v
}
