// Package layout implements the in-memory model and codec for layout
// definitions: the XML documents a content item carries in its shared and
// final layout fields, grouping rendering entries under named devices.
//
// # Overview
//
// A parsed Document holds an ordered sequence of nodes. Members that match
// the expected shape are typed (Device under the root, Rendering under a
// device); anything else is carried as a RawElement so unknown extensions
// survive a parse/serialize cycle untouched. Iteration helpers visit only
// the typed variants and skip the rest silently.
//
// # Normalization
//
// Serialize emits a canonical form: no insignificant whitespace, attributes
// in parse order, a fixed escaping table, comments and processing
// instructions dropped. The canonical form is a fixed point — parsing and
// re-serializing it reproduces it byte for byte — which is what lets
// callers detect "nothing actually changed" by string comparison.
//
// # Input encoding
//
// Field values that crossed an HTTP or file boundary may carry a UTF-8 or
// UTF-16 byte order mark; Parse decodes those transparently before
// tokenizing.
package layout
