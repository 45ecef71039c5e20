package analyzer

import "strings"

// ClassificationThreshold is the composite score a document type must exceed
// to be reported instead of DocumentUnknown.
const ClassificationThreshold = 0.15

// Classification is the classifier verdict plus the per-type composite scores.
type Classification struct {
	Label  DocumentType             `json:"label"`
	Scores map[DocumentType]float64 `json:"scores"`
}

// Classifier scores text against the document type keyword bags.
type Classifier struct {
	bags []typeBag
}

type typeBag struct {
	label   DocumentType
	phrases []*phrase
}

// NewClassifier compiles the document type bags in DocumentTypes order.
func NewClassifier(kw *Keywords) *Classifier {
	c := &Classifier{bags: make([]typeBag, 0, len(DocumentTypes))}
	for _, dt := range DocumentTypes {
		c.bags = append(c.bags, typeBag{label: dt, phrases: compilePhrases(kw.DocumentTypes[dt])})
	}
	return c
}

// Classify returns the best scoring document type, or DocumentUnknown when
// no type scores above ClassificationThreshold.
//
// For each type, density is matches/len(bag) and frequency is
// matches/(words+1); the composite is 0.7*density + 0.3*frequency. Words are
// counted on the lower-cased text so hyphenated tokens count once.
func (c *Classifier) Classify(text string) Classification {
	normalized := NormalizeText(text)
	words := wordCount(strings.ToLower(text))

	result := Classification{
		Label:  DocumentUnknown,
		Scores: make(map[DocumentType]float64, len(c.bags)),
	}

	best := 0.0
	for _, bag := range c.bags {
		score := 0.0
		if normalized != "" && len(bag.phrases) > 0 {
			matches := float64(countMatches(normalized, bag.phrases))
			density := matches / float64(len(bag.phrases))
			frequency := matches / float64(words+1)
			score = 0.7*density + 0.3*frequency
		}
		result.Scores[bag.label] = score

		// Strict comparison keeps the earliest type on ties.
		if score > best {
			best = score
			result.Label = bag.label
		}
	}

	if best <= ClassificationThreshold {
		result.Label = DocumentUnknown
	}
	return result
}
