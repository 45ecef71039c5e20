package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx writes a minimal .docx archive with one paragraph per entry.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() +
			`</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildPDF writes a one-page PDF that shows each line with Helvetica.
func buildPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

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

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"resume.pdf", FormatPDF, false},
		{"Resume.PDF", FormatPDF, false},
		{"cv.docx", FormatDOCX, false},
		{"notes.txt", FormatText, false},
		{"README.md", FormatText, false},
		{"legacy.doc", "", true},
		{"photo.png", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromBytes_Text(t *testing.T) {
	text, err := FromBytes("resume.txt", []byte("JANE DOE\r\n\r\n\r\n\r\nSKILLS   \r\nGo,    Python\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\n\nSKILLS\nGo, Python", text)
}

func TestFromBytes_Docx(t *testing.T) {
	data := buildDocx(t, "JANE DOE", "EXPERIENCE", "Senior Engineer &amp; Team Lead", "", "SKILLS", "Go {and} Rust")

	text, err := FromBytes("resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nEXPERIENCE\nSenior Engineer & Team Lead\n\nSKILLS\nGo {and} Rust", text)
}

func TestFromBytes_DocxUnbalancedBraces(t *testing.T) {
	data := buildDocx(t, "Skills: Go, C {", "Tools: Docker")

	text, err := FromBytes("resume.docx", data)
	require.NoError(t, err)
	assert.Contains(t, text, "Skills: Go, C {")
	assert.Contains(t, text, "Tools: Docker")
}

func TestFromBytes_PDF(t *testing.T) {
	data := buildPDF("Jane Doe", "Backend Engineer")

	text, err := FromBytes("resume.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Backend Engineer")
}

func TestFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		sentinel error
	}{
		{name: "unsupported", filename: "resume.rtf", data: []byte("{\\rtf1}"), sentinel: ErrUnsupportedFormat},
		{name: "empty text", filename: "resume.txt", data: []byte("  \n\n \t"), sentinel: ErrNoText},
		{name: "garbage pdf", filename: "resume.pdf", data: []byte("definitely not a pdf")},
		{name: "garbage docx", filename: "resume.docx", data: []byte("definitely not a zip")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.filename, tt.data)
			require.Error(t, err)

			var extractErr *Error
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, tt.filename, extractErr.Filename)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nGo developer"), 0644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)

	_, err = FromFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
