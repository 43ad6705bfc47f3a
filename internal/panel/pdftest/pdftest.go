// Package pdftest builds small, well-formed PDF files for tests. Every page
// is an empty US Letter page.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

const mediaBox = "/MediaBox [0 0 612 792]"

// Document returns a PDF 1.4 file with a classic xref table.
func Document(pages int) []byte {
	data, _ := document(pages)
	return data
}

// document returns the file and the offset of its xref table.
func document(pages int) ([]byte, int) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, pages+3)
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	fmt.Fprintf(&buf, "2 0 obj\n%s\nendobj\n", pageTree(pages))
	for i := 0; i < pages; i++ {
		offsets[i+3] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+3, page(""))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets))
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xref)
	return buf.Bytes(), xref
}

// ObjectStream returns a PDF 1.5 file whose page tree lives in a
// Flate-compressed object stream indexed by an xref stream, the layout most
// current writers produce.
func ObjectStream(pages int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")

	catalog := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	// Objects 2 (page tree) to pages+2 (pages) are packed into one stream.
	bodies := []string{pageTree(pages)}
	for i := 0; i < pages; i++ {
		bodies = append(bodies, page(""))
	}
	var header, content strings.Builder
	for i, body := range bodies {
		fmt.Fprintf(&header, "%d %d ", i+2, content.Len())
		content.WriteString(body)
		content.WriteString("\n")
	}
	compressed := deflate(header.String() + content.String())

	objStm := pages + 3
	xrefObj := pages + 4
	size := pages + 5

	objStmOff := buf.Len()
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /ObjStm /N %d /First %d /Filter /FlateDecode /Length %d >>\nstream\n",
		objStm, len(bodies), header.Len(), len(compressed))
	buf.Write(compressed)
	buf.WriteString("\nendstream\nendobj\n")

	xrefOff := buf.Len()
	entries := make([]byte, 6*size)
	entry := func(num int, kind byte, field2, field3 int) {
		e := entries[num*6:]
		e[0] = kind
		e[1], e[2], e[3], e[4] = byte(field2>>24), byte(field2>>16), byte(field2>>8), byte(field2)
		e[5] = byte(field3)
	}
	entry(0, 0, 0, 255)
	entry(1, 1, catalog, 0)
	for i := range bodies {
		entry(i+2, 2, objStm, i)
	}
	entry(objStm, 1, objStmOff, 0)
	entry(xrefObj, 1, xrefOff, 0)

	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /Root 1 0 R /W [1 4 1] /Index [0 %d] /Length %d >>\nstream\n",
		xrefObj, size, size, len(entries))
	buf.Write(entries)
	buf.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

// Incremental returns Document(pages) followed by an incremental update
// that rewrites the first page, rotating it. The file then holds two copies
// of that page object, only the newer one reachable.
func Incremental(pages int) []byte {
	base, prev := document(pages)
	buf := bytes.NewBuffer(base)

	updated := buf.Len()
	fmt.Fprintf(buf, "3 0 obj\n%s\nendobj\n", page("/Rotate 90"))
	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 1\n0000000000 65535 f \n3 1\n%010d 00000 n \n", updated)
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root 1 0 R /Prev %d >>\nstartxref\n%d\n%%%%EOF\n", pages+3, prev, xref)
	return buf.Bytes()
}

func pageTree(pages int) string {
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	return fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages)
}

func page(extra string) string {
	return fmt.Sprintf("<< /Type /Page /Parent 2 0 R %s /Resources << >> %s >>", mediaBox, extra)
}

func deflate(s string) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write([]byte(s))
	_ = w.Close()
	return buf.Bytes()
}
