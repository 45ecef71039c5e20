package analyzer

// Analyzer bundles the classifier and section extractor built from one set of
// keyword bags with the stateless matcher and formatting scorer.
type Analyzer struct {
	keywords   *Keywords
	classifier *Classifier
	extractor  *SectionExtractor
}

// Analysis is the combined analyzer output for one document. Sections,
// SkillMatch and Formatting are only populated when the document is a resume.
type Analysis struct {
	Classification Classification             `json:"classification"`
	IsResume       bool                       `json:"is_resume"`
	Sections       map[Section][]SectionBlock `json:"sections,omitempty"`
	SkillMatch     *SkillMatchResult          `json:"skill_match,omitempty"`
	Formatting     *FormattingReport          `json:"formatting,omitempty"`
}

// New validates the keyword bags and builds an Analyzer. A nil kw selects the
// built-in bags.
func New(kw *Keywords) (*Analyzer, error) {
	if kw == nil {
		kw = DefaultKeywords()
	}
	if err := kw.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		keywords:   kw,
		classifier: NewClassifier(kw),
		extractor:  NewSectionExtractor(kw),
	}, nil
}

// Keywords returns the bags the analyzer was built with.
func (a *Analyzer) Keywords() *Keywords {
	return a.keywords
}

// Classify returns the document type verdict for text.
func (a *Analyzer) Classify(text string) Classification {
	return a.classifier.Classify(text)
}

// ExtractSection returns the blocks of one section.
func (a *Analyzer) ExtractSection(text string, section Section) []SectionBlock {
	return a.extractor.Extract(text, section)
}

// ExtractSections returns the blocks of every content section.
func (a *Analyzer) ExtractSections(text string) map[Section][]SectionBlock {
	return a.extractor.ExtractAll(text)
}

// MatchSkills matches required skills against text.
func (a *Analyzer) MatchSkills(text string, required []string) (SkillMatchResult, error) {
	return MatchSkills(text, required)
}

// ScoreFormatting scores the structure of text.
func (a *Analyzer) ScoreFormatting(text string) FormattingReport {
	return ScoreFormatting(text)
}

// Analyze classifies text and, for resumes, runs the remaining passes.
// The only error is an InvalidArgumentError from a blank required skill.
func (a *Analyzer) Analyze(text string, required []string) (*Analysis, error) {
	match, err := a.MatchSkills(text, required)
	if err != nil {
		return nil, err
	}

	result := &Analysis{Classification: a.Classify(text)}
	result.IsResume = result.Classification.Label == DocumentResume
	if !result.IsResume {
		return result, nil
	}

	formatting := a.ScoreFormatting(text)

	result.Sections = a.ExtractSections(text)
	result.SkillMatch = &match
	result.Formatting = &formatting
	return result, nil
}
