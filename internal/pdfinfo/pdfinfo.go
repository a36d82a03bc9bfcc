// Package pdfinfo inspects canonical-format files after ingestion. It is
// metadata only: a file that fails inspection is still stored and served.
package pdfinfo

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// PageCount parses the PDF and returns the number of pages in its page
// tree.
func PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}
