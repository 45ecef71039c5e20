package analyzer

import (
	"strings"
)

// implicitSummaryLines is how many leading non-blank lines are considered for
// an implicit summary block.
const implicitSummaryLines = 5

// implicitSummaryMinWords is the word count the leading lines must exceed.
const implicitSummaryMinWords = 10

// SectionBlock is one contiguous run of lines attributed to a section.
type SectionBlock struct {
	Section  Section  `json:"section"`
	Lines    []string `json:"lines"`
	Text     string   `json:"text"`
	Implicit bool     `json:"implicit,omitempty"`
}

func newBlock(section Section, lines []string, implicit bool) SectionBlock {
	kept := make([]string, len(lines))
	copy(kept, lines)
	return SectionBlock{
		Section:  section,
		Lines:    kept,
		Text:     strings.Join(kept, "\n"),
		Implicit: implicit,
	}
}

// SectionExtractor carves section blocks out of plain text line by line.
//
// A section opens on any line containing one of its trigger keywords as a
// substring. It closes on a line that contains a whole-word keyword (or its
// plural) from the generic resume bag and none of the section's own keywords.
// Blank lines split the open section into separate blocks without closing it.
type SectionExtractor struct {
	triggers map[Section][]string
	closers  []*phrase
	contact  []*phrase
}

// NewSectionExtractor builds an extractor from the section and resume bags.
func NewSectionExtractor(kw *Keywords) *SectionExtractor {
	e := &SectionExtractor{
		triggers: make(map[Section][]string, len(allSections)),
		closers:  make([]*phrase, 0, len(kw.DocumentTypes[DocumentResume])),
		contact:  compilePhrases(kw.Sections[SectionContact]),
	}
	for _, s := range allSections {
		e.triggers[s] = kw.Sections[s]
	}
	for _, w := range kw.DocumentTypes[DocumentResume] {
		if p := compilePluralPhrase(w); p != nil {
			e.closers = append(e.closers, p)
		}
	}
	return e
}

// Extract returns the blocks for one section in document order. For the
// summary section an implicit leading block may precede the explicit ones.
func (e *SectionExtractor) Extract(text string, section Section) []SectionBlock {
	lines := splitLines(text)
	blocks := make([]SectionBlock, 0)

	if section == SectionSummary {
		if block, ok := e.implicitSummary(lines); ok {
			blocks = append(blocks, block)
		}
	}

	return append(blocks, e.scan(lines, section)...)
}

// ExtractAll runs Extract for every content section.
func (e *SectionExtractor) ExtractAll(text string) map[Section][]SectionBlock {
	out := make(map[Section][]SectionBlock, len(ContentSections))
	for _, s := range ContentSections {
		out[s] = e.Extract(text, s)
	}
	return out
}

func (e *SectionExtractor) scan(lines []string, section Section) []SectionBlock {
	triggers := e.triggers[section]
	blocks := make([]SectionBlock, 0)
	if len(triggers) == 0 {
		return blocks
	}

	var acc []string
	inside := false

	flush := func() {
		if len(acc) > 0 {
			blocks = append(blocks, newBlock(section, acc, false))
			acc = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if line == "" {
			if inside {
				flush()
			}
			continue
		}

		ownKeyword := containsAnySubstring(lower, triggers)
		if ownKeyword {
			inside = true
			if !isBareHeader(lower, triggers) {
				acc = append(acc, line)
			}
			continue
		}

		if !inside {
			continue
		}

		if anyMatch(NormalizeText(line), e.closers) {
			flush()
			inside = false
			continue
		}

		acc = append(acc, line)
	}

	flush()
	return blocks
}

// implicitSummary treats the first few non-blank lines as a summary when they
// read like prose: no summary header on the first line, more than ten words,
// and no contact keywords.
func (e *SectionExtractor) implicitSummary(lines []string) (SectionBlock, bool) {
	leading := make([]string, 0, implicitSummaryLines)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		leading = append(leading, line)
		if len(leading) == implicitSummaryLines {
			break
		}
	}
	if len(leading) == 0 {
		return SectionBlock{}, false
	}

	if containsAnySubstring(strings.ToLower(leading[0]), e.triggers[SectionSummary]) {
		return SectionBlock{}, false
	}

	joined := strings.Join(leading, " ")
	if wordCount(joined) <= implicitSummaryMinWords {
		return SectionBlock{}, false
	}
	if anyMatch(NormalizeText(joined), e.contact) {
		return SectionBlock{}, false
	}

	return newBlock(SectionSummary, leading, true), true
}

// isBareHeader reports whether the line is nothing but one of the keywords,
// optionally followed by a colon.
func isBareHeader(lowerLine string, keywords []string) bool {
	header := strings.TrimSpace(strings.TrimSuffix(lowerLine, ":"))
	for _, kw := range keywords {
		if header == kw {
			return true
		}
	}
	return false
}
