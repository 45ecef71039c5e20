// Package prompts loads the LLM prompt templates embedded with the binary.
// Each JSON file maps a prompt key to a template using {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// CritiqueFile holds the structured resume review prompts.
const CritiqueFile = "critique.json"

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

type store struct {
	mu    sync.RWMutex
	files map[string]map[string]string
}

var prompts = &store{files: make(map[string]map[string]string)}

// Get returns the raw template stored under key in filename.
func Get(filename, key string) (string, error) {
	file, err := prompts.load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := file[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders with values from data. Unknown
// placeholders are left as-is.
func Format(template string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := data[name]; ok {
			return v
		}
		return m
	})
}

// Render loads a template and formats it, failing if any placeholder has no
// value in data.
func Render(filename, key string, data map[string]string) (string, error) {
	tmpl, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	if missing := Placeholders(tmpl, data); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(tmpl, data), nil
}

// Placeholders lists the placeholder names in template that data does not
// provide, sorted and without duplicates.
func Placeholders(template string, data map[string]string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if _, ok := data[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

// Keys returns the sorted prompt keys defined in filename.
func Keys(filename string) ([]string, error) {
	file, err := prompts.load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(file))
	for k := range file {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache drops every parsed file so the next lookup re-reads it.
func ClearCache() {
	prompts.mu.Lock()
	prompts.files = make(map[string]map[string]string)
	prompts.mu.Unlock()
}

func (s *store) load(filename string) (map[string]string, error) {
	s.mu.RLock()
	file, ok := s.files[filename]
	s.mu.RUnlock()
	if ok {
		return file, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	s.mu.Lock()
	s.files[filename] = file
	s.mu.Unlock()
	return file, nil
}
