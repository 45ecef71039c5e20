package rendering

import (
	"errors"
	"fmt"
)

// ErrMissingForm is returned when an export is asked for without a form.
var ErrMissingForm = errors.New("resume form is required")

// Stage names the step of a LaTeX export that failed.
type Stage string

const (
	StageInput   Stage = "check form"
	StageLoad    Stage = "load template"
	StageParse   Stage = "parse template"
	StageExecute Stage = "execute template"
)

// ExportError reports which step of a LaTeX export failed. Template is the
// template file path, or empty for the built-in template.
type ExportError struct {
	Stage    Stage
	Template string
	Cause    error
}

func (e *ExportError) Error() string {
	name := e.Template
	if name == "" {
		name = "built-in"
	}
	if e.Stage == StageInput {
		return fmt.Sprintf("latex export: %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("latex export: %s %s: %v", e.Stage, name, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
