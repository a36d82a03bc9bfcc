package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	derrors "redink/pkg/domain-errors"
)

// Format is the original format of an uploaded file. PDF is the canonical
// viewable format; everything else must be converted before a document
// record may exist.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Convertible reports whether files of this format need conversion to the
// canonical format before storage.
func (f Format) Convertible() bool {
	return f != FormatPDF
}

// Extension returns the filename extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// FormatFromFilename determines the format from a filename's extension.
// Unsupported or missing extensions are validation errors.
func FormatFromFilename(filename string) (Format, error) {
	if strings.TrimSpace(filename) == "" {
		return "", derrors.New(derrors.CodeValidation, "no filename provided")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", derrors.New(derrors.CodeValidation, "only PDF and DOCX files are supported")
	}
}

// Document is the catalog entry for one ingested file.
//
// Invariants:
//   - StoredFilename always names a canonical-format file that exists in
//     the content store at the time the record is committed
//   - ShareToken is globally unique and immutable once generated
//   - A convertible-format document has already been converted: no
//     partially-converted document is ever visible
type Document struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          *uuid.UUID `json:"user_id"`
	OriginalFilename string     `json:"original_filename"`
	StoredFilename   string     `json:"stored_filename"`
	OriginalFormat   Format     `json:"original_type"`
	PageCount        int        `json:"page_count"`
	ShareToken       string     `json:"share_hash"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DownloadFilename is the name offered to clients fetching the canonical
// file: the original name with its extension swapped for .pdf.
func (d *Document) DownloadFilename() string {
	base := d.OriginalFilename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + ".pdf"
}

// Owned reports whether the document is bound to an owner.
func (d *Document) Owned() bool {
	return d.OwnerID != nil
}
