// Package ingestion resolves a job description from pasted text, a local file
// or a job board URL into cleaned plain text.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/fetch"
)

var (
	// ErrEmptyContent is returned when no job description text remains after cleaning
	ErrEmptyContent = errors.New("job description is empty")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// JobPosting is a cleaned job description plus its provenance.
type JobPosting struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// FromText cleans a pasted job description.
func FromText(text string) (*JobPosting, error) {
	cleaned := extract.CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyContent
	}
	return &JobPosting{Text: cleaned, Metadata: NewMetadata(SourceText, cleaned)}, nil
}

// FromFile reads a job description from disk. Saved HTML pages go through the
// job board text extractor; PDF, DOCX and text files through extract.
func FromFile(path string) (*JobPosting, error) {
	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %w", err)
			}
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		posting, err := fetch.ExtractPosting(string(data), fetch.GenericBoard())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
		text = posting.Description
	default:
		var err error
		text, err = extract.FromFile(path)
		if err != nil {
			if errors.Is(err, extract.ErrNoText) {
				return nil, ErrEmptyContent
			}
			return nil, err
		}
	}

	cleaned := extract.CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyContent
	}

	metadata := NewMetadata(SourceFile, cleaned)
	metadata.Path = path
	return &JobPosting{Text: cleaned, Metadata: metadata}, nil
}
