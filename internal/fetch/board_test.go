package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://job-boards.greenhouse.io/acme/jobs/7063751", "greenhouse"},
		{"https://boards.greenhouse.io/company/jobs/123", "greenhouse"},
		{"https://jobs.lever.co/company/job-id", "lever"},
		{"https://company.wd5.myworkdayjobs.com/en-US/External/job/123", "workday"},
		{"https://www.linkedin.com/jobs/view/3912345678", "linkedin"},
		{"https://in.indeed.com/viewjob?jk=abc", "indeed"},
		{"https://www.indeed.co.uk/viewjob?jk=abc", "indeed"},
		{"https://www.naukri.com/job-listings-backend-developer-123", "naukri"},
		{"https://LinkedIn.com/jobs/view/1", "linkedin"},
		{"https://notlinkedin.com/jobs", GenericBoardName},
		{"https://linkedin.com.evil.example/jobs", GenericBoardName},
		{"https://example.com/careers/backend", GenericBoardName},
		{"::not a url", GenericBoardName},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, BoardFor(tt.url).Name)
		})
	}
}

func TestBoards(t *testing.T) {
	assert.Equal(t, []string{"greenhouse", "lever", "workday", "linkedin", "indeed", "naukri"}, BoardNames())

	for _, b := range boards {
		assert.NotEmpty(t, b.Domains, b.Name)
		assert.NotEmpty(t, b.Description, b.Name)
	}

	assert.True(t, BoardFor("https://acme.wd1.myworkdayjobs.com/x").ClientRendered)
	assert.False(t, BoardFor("https://jobs.lever.co/acme/1").ClientRendered)
	assert.Equal(t, GenericBoardName, GenericBoard().Name)
}
