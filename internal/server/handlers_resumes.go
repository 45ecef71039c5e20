package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/rendering"
	"github.com/jonathan/skillmatch/internal/types"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleBuildResume renders a resume form as DOCX (default) or LaTeX and
// returns it as a download. The form is stored when a database is configured.
func (s *Server) handleBuildResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req types.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, decodeError(err))
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = FormatDOCX
	}

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case FormatDOCX:
		data, err = s.builder.Build(&req.ResumeForm, req.Template)
		contentType, ext = docxContentType, "docx"
	case FormatLaTeX, "tex":
		var tex string
		tex, err = s.renderLaTeX(&req.ResumeForm, req.Template)
		data = []byte(tex)
		contentType, ext = "application/x-tex; charset=utf-8", "tex"
	default:
		err = &ErrValidation{Field: "format", Message: "must be one of: docx latex"}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		id, err := builder.Save(r.Context(), s.store, &req.ResumeForm, req.Template)
		if err != nil {
			log.Printf("[builder] failed to store resume: %v", err)
		} else {
			w.Header().Set("X-Resume-ID", id.String())
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, downloadName(req.PersonalInfo.FullName), ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing resume download: %v", err)
	}
}

func (s *Server) renderLaTeX(form *types.ResumeForm, template string) (string, error) {
	if s.latexTemplate != "" {
		return rendering.RenderLaTeXFile(form, template, s.latexTemplate)
	}
	return rendering.RenderLaTeX(form, template)
}

// downloadName turns a person's name into a safe file stem such as
// "jane_doe_resume".
func downloadName(fullName string) string {
	var sb strings.Builder
	underscore := false
	for _, r := range strings.ToLower(fullName) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			underscore = false
		} else if sb.Len() > 0 && !underscore {
			sb.WriteByte('_')
			underscore = true
		}
	}
	stem := strings.TrimSuffix(sb.String(), "_")
	if stem == "" {
		return "resume"
	}
	return stem + "_resume"
}
