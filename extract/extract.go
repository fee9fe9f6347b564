package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType is returned for file extensions outside the accepted set.
var ErrUnsupportedType = errors.New("unsupported file type")

// FromUpload extracts the study text from an uploaded file. PDFs get real
// per-page text extraction; .txt/.md/.doc/.docx are read as raw text
// (binary office formats are not parsed). Returns the extracted text and
// the normalized file type.
func FromUpload(filename string, data []byte) (string, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "pdf":
		text, err := pdfText(data)
		if err != nil {
			return "", "", fmt.Errorf("failed to parse PDF: %w", err)
		}
		return text, ext, nil
	case "txt", "md", "doc", "docx":
		return strings.TrimSpace(string(data)), ext, nil
	default:
		return "", "", ErrUnsupportedType
	}
}

// pdfText concatenates the plain text of every page, separated by newlines.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
