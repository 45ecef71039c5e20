package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source records where a job description came from.
type Source string

// Job description sources.
const (
	SourceText Source = "text"
	SourceFile Source = "file"
	SourceURL  Source = "url"
)

// Metadata contains provenance for an ingested job description
type Metadata struct {
	Source    Source `json:"source"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Platform  string `json:"platform,omitempty"` // Detected job board
	Title     string `json:"title,omitempty"`      // Posting title when the page names one
	Company   string `json:"company,omitempty"`    // Hiring company when the page names one
	Browser   bool   `json:"browser,omitempty"`  // Content came from headless rendering
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(source Source, content string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
