// Package extract turns uploaded resume files (PDF, DOCX, plain text) into
// cleaned UTF-8 text for the analyzer.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/lukasjarosch/go-docx"
)

// Format is a supported input file format.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

var (
	// ErrUnsupportedFormat is returned for file extensions we cannot read
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoText is returned when a readable file yields no text, e.g. a scanned PDF
	ErrNoText = errors.New("no text could be extracted")
)

// Error describes a failed extraction.
type Error struct {
	Filename string
	Format   Format
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract %s: %s", e.Filename, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DetectFormat maps a filename extension to a Format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".md", ".text":
		return FormatText, nil
	default:
		return "", &Error{Filename: filename, Message: "only .pdf, .docx and .txt files are accepted", Cause: ErrUnsupportedFormat}
	}
}

// FromFile reads and extracts a file from disk.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes extracts cleaned text from file contents. The filename only
// selects the format.
func FromBytes(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = pdfText(data)
	case FormatDOCX:
		raw, err = docxText(data)
	default:
		raw = string(data)
	}
	if err != nil {
		return "", &Error{Filename: filename, Format: format, Message: "failed to read document", Cause: err}
	}

	text := CleanText(raw)
	if text == "" {
		return "", &Error{Filename: filename, Format: format, Message: "document contains no text", Cause: ErrNoText}
	}
	return text, nil
}

// pdfText concatenates the plain text of every page. Malformed files can make
// the PDF reader panic, so the panic is turned into an error.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// docxText walks word/document.xml and emits one line per paragraph. Tabs
// and explicit breaks are kept.
func docxText(data []byte) (string, error) {
	body, err := documentXML(data)
	if err != nil {
		return "", err
	}
	return wordprocessingText(body)
}

// documentXML reads word/document.xml through go-docx. go-docx also parses
// {placeholders} and rejects unbalanced braces, which are legal in a resume,
// so the plain zip archive is the fallback.
func documentXML(data []byte) ([]byte, error) {
	if doc, err := docx.OpenBytes(data); err == nil {
		defer doc.Close()
		if body := doc.GetFile(docx.DocumentXml); len(body) > 0 {
			return body, nil
		}
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range archive.File {
		if f.Name != docx.DocumentXml {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", docx.DocumentXml)
}

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func wordprocessingText(documentXML []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(documentXML))

	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("invalid document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText && utf8.Valid(t) {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
