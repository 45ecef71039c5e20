package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/types"
)

func testBuildRequest(template string) types.BuildRequest {
	return types.BuildRequest{
		ResumeForm: types.ResumeForm{
			PersonalInfo: types.PersonalInfo{
				FullName: "Jane Q. Doe",
				Email:    "jane@example.com",
				Phone:    "+1 555 010 0100",
			},
			Summary: "Backend engineer building payment systems.",
			Experiences: []types.ExperienceEntry{
				{Company: "Acme", Position: "Senior Engineer", StartDate: "2021", Achievements: []string{"Cut latency by 40%"}},
			},
			Skills: types.SkillCategories{Technical: []string{"Go", "PostgreSQL"}, Soft: []string{"Mentoring"}},
		},
		Template: template,
	}
}

func TestBuildResume_DOCX(t *testing.T) {
	store := newMockStore()
	h := newTestServer(t, withStore(store)).Handler()

	w := doJSON(t, h, http.MethodPost, "/resumes/build", testBuildRequest("Professional"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, docxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="jane_q_doe_resume.docx"`, w.Header().Get("Content-Disposition"))

	text, err := extract.FromBytes("resume.docx", w.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(text), "jane q. doe")
	assert.Contains(t, text, "Cut latency by 40%")

	require.Len(t, store.resumes, 1)
	for id, r := range store.resumes {
		assert.Equal(t, id.String(), w.Header().Get("X-Resume-ID"))
		assert.Equal(t, db.SourceBuilder, r.Source)
		assert.Equal(t, "Professional", r.Template)
		assert.Len(t, store.skills[id], 3)
	}
}

func TestBuildResume_LaTeX(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, format := range []string{"latex", "TeX"} {
		w := doJSON(t, h, http.MethodPost, "/resumes/build?format="+format, testBuildRequest(""))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Contains(t, w.Header().Get("Content-Type"), "application/x-tex")
		assert.Equal(t, `attachment; filename="jane_q_doe_resume.tex"`, w.Header().Get("Content-Disposition"))
		assert.Empty(t, w.Header().Get("X-Resume-ID"))

		body := w.Body.String()
		assert.Contains(t, body, `\documentclass`)
		assert.Contains(t, body, `Cut latency by 40\%`)
	}
}

func TestBuildResume_StoreFailureStillDownloads(t *testing.T) {
	store := newMockStore()
	store.createErr = assert.AnError
	h := newTestServer(t, withStore(store)).Handler()

	w := doJSON(t, h, http.MethodPost, "/resumes/build", testBuildRequest(""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Resume-ID"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestBuildResume_Errors(t *testing.T) {
	invalid := testBuildRequest("")
	invalid.PersonalInfo.Email = "not-an-email"
	invalid.PersonalInfo.Phone = ""

	tests := []struct {
		name    string
		path    string
		body    any
		status  int
		details []string
	}{
		{
			name:    "invalid form docx",
			path:    "/resumes/build",
			body:    invalid,
			status:  http.StatusBadRequest,
			details: []string{"personal_info.email: must be a valid email address", "personal_info.phone: is required"},
		},
		{
			name:    "invalid form latex",
			path:    "/resumes/build?format=latex",
			body:    invalid,
			status:  http.StatusBadRequest,
			details: []string{"personal_info.email: must be a valid email address", "personal_info.phone: is required"},
		},
		{name: "unknown template", path: "/resumes/build", body: testBuildRequest("Baroque"), status: http.StatusBadRequest},
		{name: "unknown format", path: "/resumes/build?format=pdf", body: testBuildRequest(""), status: http.StatusBadRequest},
		{name: "bad json", path: "/resumes/build", body: `{"personal_info":`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			h := newTestServer(t, withStore(store)).Handler()

			w := doJSON(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.details != nil {
				assert.Equal(t, tt.details, decodeBody[errorBody](t, w).Details)
			}
			assert.Empty(t, store.resumes)
		})
	}
}

func TestDownloadName(t *testing.T) {
	tests := map[string]string{
		"Jane Doe":          "jane_doe_resume",
		"  José  Núñez ":    "jos_n_ez_resume",
		"O'Brien, Pat":      "o_brien_pat_resume",
		"":                  "resume",
		"***":               "resume",
		"Ada Lovelace 2nd!": "ada_lovelace_2nd_resume",
	}
	for in, want := range tests {
		assert.Equal(t, want, downloadName(in), in)
	}
}
