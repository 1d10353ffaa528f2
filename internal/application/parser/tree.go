package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/ianaindex"

	"3tcapital/sriats/internal/core/comprobante"
)

var (
	errNoRootElement   = errors.New("no se encontró un elemento raíz")
	errMultipleRoots   = errors.New("el documento tiene más de un elemento raíz")
	errTextOutsideRoot = errors.New("hay texto fuera del elemento raíz")
)

// charsetReader accepts any charset label the IANA registry knows. Content
// reaching the parser is already UTF-8 (the archive extractor transcodes
// legacy encodings), so the reader is returned unchanged.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if _, err := ianaindex.IANA.Encoding(label); err != nil {
		return nil, fmt.Errorf("charset no soportado %q: %w", label, err)
	}
	return input, nil
}

// parseTree reads xmlString into a generic element tree. Attributes are kept
// on their elements, namespace prefixes are ignored by tag lookups and CDATA
// sections stay flagged so the envelope step can tell them apart.
func parseTree(xmlString string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		PreserveCData: true,
	}

	if err := doc.ReadFromString(xmlString); err != nil {
		return nil, err
	}

	return doc, nil
}

// rootKeys lists the tag names of the top-level elements of doc.
// Processing instructions and comments are not elements and never appear.
func rootKeys(doc *etree.Document) []string {
	if doc == nil {
		return nil
	}

	elements := doc.ChildElements()
	keys := make([]string, 0, len(elements))
	for _, el := range elements {
		keys = append(keys, el.Tag)
	}
	return keys
}

// topLevel returns the first top-level element named tag.
func topLevel(doc *etree.Document, tag string) *etree.Element {
	if doc == nil {
		return nil
	}
	return doc.SelectElement(tag)
}

// child walks a chain of single child elements. It returns nil as soon as a
// step is missing.
func child(el *etree.Element, path ...string) *etree.Element {
	for _, tag := range path {
		if el == nil {
			return nil
		}
		el = el.SelectElement(tag)
	}
	return el
}

// children walks path and returns every element matching the last step.
// A single occurrence and a repeated one both come back as a slice, and a
// missing branch yields an empty slice.
func children(el *etree.Element, path ...string) []*etree.Element {
	if el == nil || len(path) == 0 {
		return nil
	}

	parent := child(el, path[:len(path)-1]...)
	if parent == nil {
		return nil
	}
	return parent.SelectElements(path[len(path)-1])
}

// text returns the trimmed character data of the element at path.
func text(el *etree.Element, path ...string) string {
	target := child(el, path...)
	if target == nil {
		return ""
	}
	return NormalizeString(target.Text())
}

// charData concatenates the character data directly inside el and reports
// whether any of it came from a CDATA section.
func charData(el *etree.Element) (string, bool) {
	var (
		sb    strings.Builder
		cdata bool
	)

	for _, token := range el.Child {
		data, ok := token.(*etree.CharData)
		if !ok {
			continue
		}
		if data.IsCData() {
			cdata = true
		}
		sb.WriteString(data.Data)
	}

	return strings.TrimSpace(sb.String()), cdata
}

// serializeElement renders el as a standalone XML document.
func serializeElement(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	return doc.WriteToString()
}

// taxEntries decodes totalImpuesto or impuesto lines into tax entries.
func taxEntries(elements []*etree.Element) []comprobante.TaxEntry {
	entries := make([]comprobante.TaxEntry, 0, len(elements))
	for _, el := range elements {
		entries = append(entries, comprobante.TaxEntry{
			Codigo:           text(el, "codigo"),
			CodigoPorcentaje: text(el, "codigoPorcentaje"),
			BaseImponible:    text(el, "baseImponible"),
			Valor:            text(el, "valor"),
		})
	}
	return entries
}
