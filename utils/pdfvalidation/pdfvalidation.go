package pdfvalidation

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int    // Maximum file size in MB
	MaxPages         int    // Maximum number of pages
	DocumentTypeName string // For error messages
}

// DefaultLimits applies when configuration leaves a limit unset
var DefaultLimits = PDFLimits{
	MaxFileSizeMB:    20,
	MaxPages:         500,
	DocumentTypeName: "publication",
}

// WithDefaults fills zero limits from DefaultLimits
func (l PDFLimits) WithDefaults() PDFLimits {
	if l.MaxFileSizeMB <= 0 {
		l.MaxFileSizeMB = DefaultLimits.MaxFileSizeMB
	}
	if l.MaxPages <= 0 {
		l.MaxPages = DefaultLimits.MaxPages
	}
	if l.DocumentTypeName == "" {
		l.DocumentTypeName = DefaultLimits.DocumentTypeName
	}
	return l
}

// MaxBytes is the size limit in bytes
func (l PDFLimits) MaxBytes() int64 {
	return int64(l.MaxFileSizeMB) * 1024 * 1024
}

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ValidatePDFBytes validates PDF content bytes against the given limits
func ValidatePDFBytes(content []byte, limits PDFLimits) *ValidationResult {
	limits = limits.WithDefaults()
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	// 1. Validate file size
	if result.FileSize > limits.MaxBytes() {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result
	}

	// 2. Validate PDF header
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Error = "Invalid PDF file: missing PDF header"
		return result
	}

	// 3. Get page count
	pageCount, err := getPDFPageCount(content)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
		return result
	}

	result.PageCount = pageCount

	// 4. Validate page count
	if pageCount > limits.MaxPages {
		result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for %s",
			pageCount, limits.MaxPages, limits.DocumentTypeName)
		return result
	}

	if pageCount == 0 {
		result.Error = "PDF has no pages"
		return result
	}

	result.Valid = true
	return result
}

// sanitizePDF removes trailing garbage data from PDFs
func sanitizePDF(content []byte) []byte {
	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}
	return content[:pdfEnd]
}

// getPDFPageCount returns the number of pages in a PDF
func getPDFPageCount(content []byte) (count int, err error) {
	// the parser panics on some truncated cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	content = sanitizePDF(content)
	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}
