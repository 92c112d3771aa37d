package pdfvalidation

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectsMissingHeader(t *testing.T) {
	result := ValidatePDFBytes([]byte("hello world"), PDFLimits{})

	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid PDF file: missing PDF header", result.Error)
}

func TestRejectsOversizedFile(t *testing.T) {
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 1024*1024)...)

	result := ValidatePDFBytes(content, PDFLimits{MaxFileSizeMB: 1})

	assert.False(t, result.Valid)
	assert.Equal(t, "File size exceeds maximum allowed size of 1MB", result.Error)
}

func TestRejectsUnparsableBody(t *testing.T) {
	result := ValidatePDFBytes([]byte("%PDF-1.4\nnot really a pdf"), PDFLimits{})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "Failed to read PDF")
}

func TestSanitizeTrimsTrailingGarbage(t *testing.T) {
	assert.Equal(t, []byte("%PDF-1.4 body %%EOF\n"), sanitizePDF([]byte("%PDF-1.4 body %%EOF\ngarbage")))
	assert.Equal(t, []byte("no marker"), sanitizePDF([]byte("no marker")))
}

func TestWithDefaults(t *testing.T) {
	limits := PDFLimits{MaxPages: 3}.WithDefaults()

	assert.Equal(t, 3, limits.MaxPages)
	assert.Equal(t, DefaultLimits.MaxFileSizeMB, limits.MaxFileSizeMB)
	assert.Equal(t, int64(20*1024*1024), limits.MaxBytes())
}

func buildPDF(pages int) []byte {
	kids := ""
	objects := []string{"<< /Type /Catalog /Pages 2 0 R >>", ""}
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestAcceptsValidPDF(t *testing.T) {
	result := ValidatePDFBytes(buildPDF(2), PDFLimits{})

	assert.True(t, result.Valid, result.Error)
	assert.Equal(t, 2, result.PageCount)
}

func TestRejectsTooManyPages(t *testing.T) {
	result := ValidatePDFBytes(buildPDF(3), PDFLimits{MaxPages: 2})

	assert.False(t, result.Valid)
	assert.Equal(t, "PDF has 3 pages, which exceeds the maximum of 2 pages for publication", result.Error)
}
