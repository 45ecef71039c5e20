package analyzer

import (
	"fmt"
	"strings"
)

// SkillMatchResult partitions the required skills into found and missing.
// Skills keep the caller's original spelling and order.
type SkillMatchResult struct {
	MatchScore    float64  `json:"match_score"`
	FoundSkills   []string `json:"found_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// MatchSkills searches text for every required skill as a whole word or
// phrase. Separators ("-", "_", "/") are treated as spaces on both sides.
//
// An empty required list yields a zero score. A blank entry is a contract
// violation and returns an InvalidArgumentError.
func MatchSkills(text string, required []string) (SkillMatchResult, error) {
	result := SkillMatchResult{
		FoundSkills:   []string{},
		MissingSkills: []string{},
	}
	if len(required) == 0 {
		return result, nil
	}

	phrases := make([]*phrase, len(required))
	for i, skill := range required {
		p := compilePhrase(skill)
		if p == nil {
			return SkillMatchResult{}, &InvalidArgumentError{
				Argument: "required_skills",
				Message:  fmt.Sprintf("entry %d (%q) is blank", i, strings.TrimSpace(skill)),
			}
		}
		phrases[i] = p
	}

	normalized := NormalizeText(text)
	for i, p := range phrases {
		if p.in(normalized) {
			result.FoundSkills = append(result.FoundSkills, required[i])
		} else {
			result.MissingSkills = append(result.MissingSkills, required[i])
		}
	}

	result.MatchScore = float64(len(result.FoundSkills)) / float64(len(required)) * 100
	return result, nil
}
