package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/types"
)

// uploadMemory is how much of a multipart upload is buffered in memory.
const uploadMemory = 1 << 20

// handleAnalyze runs a full analysis and returns the report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyzeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.pipeline.Run(r.Context(), pipelineRequest(req))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyzeStream runs an analysis and streams progress via SSE. The
// final report is sent as a "report" event followed by "complete".
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyzeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	preq := pipelineRequest(req)
	preq.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			log.Printf("[analyze] failed to stream progress: %v", err)
		}
	}

	report, err := s.pipeline.Run(r.Context(), preq)
	if err != nil {
		sse.WriteError(err)
		sse.WriteComplete("", "failed")
		return
	}

	if err := sse.WriteEvent("report", report); err != nil {
		log.Printf("[analyze] failed to stream report: %v", err)
		return
	}
	resumeID := ""
	if report.ResumeID != nil {
		resumeID = report.ResumeID.String()
	}
	sse.WriteComplete(resumeID, "completed")
}

func pipelineRequest(req *types.AnalyzeRequest) pipeline.Request {
	return pipeline.Request{
		ResumeText:     req.Text,
		RequiredSkills: req.Skills,
		JobRole:        req.Role,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
		UseAI:          req.AI,
		Persist:        true,
	}
}

// parseAnalyzeRequest reads either a multipart upload with a "file" part or
// a JSON AnalyzeRequest. Bodies over the upload limit fail with a
// *http.MaxBytesError.
func (s *Server) parseAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*types.AnalyzeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req *types.AnalyzeRequest
	var err error
	if mediaType == "multipart/form-data" {
		req, err = s.parseUpload(r)
	} else {
		req = &types.AnalyzeRequest{}
		if decodeErr := json.NewDecoder(r.Body).Decode(req); decodeErr != nil {
			err = decodeError(decodeErr)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Server) parseUpload(r *http.Request) (*types.AnalyzeRequest, error) {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &ErrValidation{Field: "file", Message: "invalid multipart body: " + err.Error()}
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &ErrValidation{Field: "file", Message: "is required"}
		}
		return nil, err
	}
	defer file.Close()

	text, err := readUpload(file, header)
	if err != nil {
		return nil, err
	}

	ai, _ := strconv.ParseBool(r.FormValue("ai"))
	return &types.AnalyzeRequest{
		Text:           text,
		Role:           strings.TrimSpace(r.FormValue("role")),
		Skills:         types.SplitSkills(r.FormValue("skills")),
		JobDescription: r.FormValue("job_description"),
		JobURL:         strings.TrimSpace(r.FormValue("job_url")),
		AI:             ai,
	}, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return extract.FromBytes(header.Filename, data)
}

// decodeError keeps size violations intact and turns other JSON errors into
// a validation failure on the body.
func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
}
