package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		required    []string
		wantFound   []string
		wantMissing []string
		wantScore   float64
	}{
		{
			name:        "java next to javascript",
			text:        "I know Java and JavaScript",
			required:    []string{"Java"},
			wantFound:   []string{"Java"},
			wantMissing: []string{},
			wantScore:   100,
		},
		{
			name:        "javascript does not imply java",
			text:        "I know JavaScript",
			required:    []string{"Java", "JavaScript"},
			wantFound:   []string{"JavaScript"},
			wantMissing: []string{"Java"},
			wantScore:   50,
		},
		{
			name:        "separators are equivalent",
			text:        "Front-end work with CI/CD and machine_learning",
			required:    []string{"front end", "CI CD", "Machine-Learning"},
			wantFound:   []string{"front end", "CI CD", "Machine-Learning"},
			wantMissing: []string{},
			wantScore:   100,
		},
		{
			name:        "multi word phrase across line break",
			text:        "Experienced in machine\nlearning pipelines",
			required:    []string{"Machine Learning"},
			wantFound:   []string{"Machine Learning"},
			wantMissing: []string{},
			wantScore:   100,
		},
		{
			name:        "phrase boundary applies to the ends",
			text:        "Worked with machine learnings",
			required:    []string{"machine learning"},
			wantFound:   []string{},
			wantMissing: []string{"machine learning"},
			wantScore:   0,
		},
		{
			name:        "punctuation in skill names",
			text:        "C++, Node.js and C# in production",
			required:    []string{"C++", "node.js", "C#", "Go"},
			wantFound:   []string{"C++", "node.js", "C#"},
			wantMissing: []string{"Go"},
			wantScore:   75,
		},
		{
			name:        "original casing kept",
			text:        "kubernetes and docker",
			required:    []string{"KUBERNETES", "Terraform"},
			wantFound:   []string{"KUBERNETES"},
			wantMissing: []string{"Terraform"},
			wantScore:   50,
		},
		{
			name:        "duplicates are counted per entry",
			text:        "Go developer",
			required:    []string{"Go", "go", "Rust"},
			wantFound:   []string{"Go", "go"},
			wantMissing: []string{"Rust"},
			wantScore:   200.0 / 3.0,
		},
		{
			name:        "empty text",
			text:        "",
			required:    []string{"Go"},
			wantFound:   []string{},
			wantMissing: []string{"Go"},
			wantScore:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchSkills(tt.text, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, got.FoundSkills)
			assert.Equal(t, tt.wantMissing, got.MissingSkills)
			assert.InDelta(t, tt.wantScore, got.MatchScore, 1e-9)
		})
	}
}

func TestMatchSkills_EmptyRequired(t *testing.T) {
	for _, required := range [][]string{nil, {}} {
		got, err := MatchSkills("Go, Python and Kubernetes", required)
		require.NoError(t, err)
		assert.Zero(t, got.MatchScore)
		assert.NotNil(t, got.FoundSkills)
		assert.NotNil(t, got.MissingSkills)
		assert.Empty(t, got.FoundSkills)
		assert.Empty(t, got.MissingSkills)
	}
}

func TestMatchSkills_BlankEntry(t *testing.T) {
	for _, blank := range []string{"", "   ", "-/_"} {
		_, err := MatchSkills("Go", []string{"Go", blank})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		var argErr *InvalidArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, "required_skills", argErr.Argument)
	}
}

func TestMatchSkills_Partition(t *testing.T) {
	texts := []string{sampleResume, "", "go go go", "Rust-lang and C++"}
	required := []string{"Go", "Rust", "C++", "Docker", "Kubernetes", "Terraform", "SQL"}

	for _, text := range texts {
		got, err := MatchSkills(text, required)
		require.NoError(t, err)

		assert.Equal(t, len(required), len(got.FoundSkills)+len(got.MissingSkills))
		found := make(map[string]bool)
		for _, s := range got.FoundSkills {
			found[s] = true
		}
		for _, s := range got.MissingSkills {
			assert.False(t, found[s], "%q is both found and missing", s)
		}
		assert.InDelta(t, float64(len(got.FoundSkills))/float64(len(required))*100, got.MatchScore, 1e-9)
	}
}
