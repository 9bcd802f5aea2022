package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presslayer/layoutkit/pkg/types"
)

const sampleLayout = `<r xmlns:p="urn:presslayer">
  <d id="{DEVICE-DEFAULT}" l="{LAYOUT-MAIN}">
    <r id="{REND-A}" ph="main" uid="{UID-A}" />
    <r id="{REND-B}" ph="main" par="x=1&amp;y=2" uid="{UID-B}" />
  </d>
  <d id="{DEVICE-PRINT}">
    <r id="{REND-C}" ph="content" uid="{UID-C}" />
  </d>
</r>`

func TestParseModel(t *testing.T) {
	doc, err := Parse(sampleLayout)
	require.NoError(t, err)

	devs := doc.Devices()
	require.Len(t, devs, 2)

	assert.Equal(t, "{DEVICE-DEFAULT}", devs[0].ID())
	assert.Equal(t, "{LAYOUT-MAIN}", devs[0].LayoutID())
	assert.Equal(t, "{DEVICE-PRINT}", devs[1].ID())
	assert.Equal(t, "", devs[1].LayoutID())

	rends := devs[0].Renderings()
	require.Len(t, rends, 2)
	assert.Equal(t, "{REND-A}", rends[0].ID())
	assert.Equal(t, "main", rends[0].Placeholder())
	assert.Equal(t, "{UID-B}", rends[1].UID())
	assert.Equal(t, "x=1&y=2", rends[1].Parameters(), "entities decoded on parse")

	require.Len(t, devs[1].Renderings(), 1)
}

// TestNormalizationIdempotent checks the codec invariant the transformer's
// change detection rests on: serializing a parse is a fixed point.
func TestNormalizationIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain", sampleLayout},
		{"empty_root", `<r />`},
		{"no_whitespace", `<r><d id="{D}"><r id="{A}" /></d></r>`},
		{"escaped_attrs", `<r><d id="{D}"><r id="{A}" par="a&quot;b&#xA;c&amp;d&lt;e" /></d></r>`},
		{"unknown_elements", `<r><x keep="1">text</x><d id="{D}"><y /><r id="{A}"><rules q="&gt;" /></r></d></r>`},
		{"default_namespace", `<r xmlns="urn:presslayer"><d id="{D}" /></r>`},
		{"declared_prefix", `<r xmlns:s="urn:s"><d id="{D}"><r id="{A}" s:ds="src" /></d></r>`},
		{"undeclared_prefix", `<r><d id="{D}"><r id="{A}" s:ds="src" /></d></r>`},
		{"xml_declaration", `<?xml version="1.0" encoding="utf-8"?><r><d id="{D}" /></r>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			once := doc.Serialize()

			again, err := Parse(once)
			require.NoError(t, err)
			assert.Equal(t, once, again.Serialize())
		})
	}
}

func TestParseBOM(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"utf8_bom", "\uFEFF" + `<r><d id="{D}" /></r>`},
		{"utf16le_bom", "\xff\xfe" + utf16le(`<r><d id="{D}" /></r>`)},
		{"utf16be_bom", "\xfe\xff" + utf16be(`<r><d id="{D}" /></r>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, doc.Devices(), 1)
			assert.Equal(t, "{D}", doc.Devices()[0].ID())
		})
	}
}

// utf16le encodes an ASCII string as UTF-16 little endian, no BOM.
func utf16le(s string) string {
	b := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		b = append(b, s[i], 0)
	}
	return string(b)
}

// utf16be encodes an ASCII string as UTF-16 big endian, no BOM.
func utf16be(s string) string {
	b := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		b = append(b, 0, s[i])
	}
	return string(b)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bare_text", "not xml at all"},
		{"unclosed", `<r><d id="{D}">`},
		{"mismatched", `<r><d></r>`},
		{"two_roots", `<r /><r />`},
		{"unknown_entity", `<r><d id="&nope;" /></r>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedLayout), "want a typed parse error, got %v", err)
		})
	}
}

// TestRawPassthrough checks that elements outside the expected shape
// survive a parse/serialize cycle and stay invisible to iteration.
func TestRawPassthrough(t *testing.T) {
	in := `<r><ext a="1">note</ext><d id="{D}"><probe /><r id="{A}" /></d></r>`

	doc, err := Parse(in)
	require.NoError(t, err)

	// Typed views skip the unknown members silently.
	require.Len(t, doc.Devices(), 1)
	require.Len(t, doc.Devices()[0].Renderings(), 1)

	out := doc.Serialize()
	assert.Contains(t, out, `<ext a="1">note</ext>`)
	assert.Contains(t, out, `<probe />`)
}

func TestRenderingChildrenPreserved(t *testing.T) {
	in := `<r><d id="{D}"><r id="{A}" uid="{U}"><rls><rule uid="{R1}" /></rls></r></d></r>`

	doc, err := Parse(in)
	require.NoError(t, err)

	r := doc.Devices()[0].Renderings()[0]
	require.Len(t, r.Children, 1)
	assert.Equal(t, "rls", r.Children[0].Name)

	assert.Contains(t, doc.Serialize(), `<rls><rule uid="{R1}" /></rls>`)
}

// TestTypedElementTextPreserved checks that character data directly inside
// a device or rendering element survives the parse/serialize cycle: entries
// are passed through unmodified except for deletion, text included.
func TestTypedElementTextPreserved(t *testing.T) {
	in := `<r><d id="{D}">devtext<r id="{A}">caption</r></d></r>`

	doc, err := Parse(in)
	require.NoError(t, err)

	dev := doc.Devices()[0]
	assert.Equal(t, "devtext", dev.Text)
	require.Len(t, dev.Renderings(), 1)
	assert.Equal(t, "caption", dev.Renderings()[0].Text)

	out := doc.Serialize()
	assert.Equal(t, in, out)

	// Still a normalization fixed point.
	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, out, again.Serialize())
}

func TestSetAttr(t *testing.T) {
	doc, err := Parse(`<r><d id="{D}"><r id="{A}" ph="main" /></d></r>`)
	require.NoError(t, err)

	r := doc.Devices()[0].Renderings()[0]
	r.SetAttr("ph", "sidebar")
	r.SetAttr("par", "k=v")

	out := doc.Serialize()
	assert.Contains(t, out, `ph="sidebar"`)
	assert.Contains(t, out, `par="k=v"`)

	// Still a normalization fixed point after mutation.
	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, out, again.Serialize())
}

func TestWalk(t *testing.T) {
	doc, err := Parse(sampleLayout)
	require.NoError(t, err)

	var visited []string
	err = doc.Walk(func(d *Device, r *Rendering) error {
		visited = append(visited, d.ID()+"/"+r.ID())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"{DEVICE-DEFAULT}/{REND-A}",
		"{DEVICE-DEFAULT}/{REND-B}",
		"{DEVICE-PRINT}/{REND-C}",
	}, visited)

	stop := errors.New("stop")
	count := 0
	err = doc.Walk(func(*Device, *Rendering) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}

func TestAttributeEscaping(t *testing.T) {
	doc := New()
	dev := &Device{}
	dev.Nodes = append(dev.Nodes, &Rendering{Attrs: []Attr{
		{Name: "id", Value: "{A}"},
		{Name: "par", Value: "a<b>\"c\"&d\ne\tf"},
	}})
	doc.Nodes = append(doc.Nodes, dev)

	out := doc.Serialize()
	back, err := Parse(out)
	require.NoError(t, err)

	got := back.Devices()[0].Renderings()[0]
	v, ok := got.Attr("par")
	require.True(t, ok)
	assert.Equal(t, "a<b>\"c\"&d\ne\tf", v, "escaping round-trips exactly")
}
