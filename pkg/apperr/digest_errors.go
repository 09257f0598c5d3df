package apperr

import "net/http"

// Digest pipeline error codes, layered on the existing taxonomy.
const (
	CodePipelineValidation = "PIPELINE_VALIDATION"
)

// PipelineValidation is raised only at pipeline construction time when
// stage dependencies form a non-DAG or reference unknown stages. It is
// fatal: nothing below it aborts pipeline construction or execution.
func PipelineValidation(message string) *AppError {
	return &AppError{
		Code:    CodePipelineValidation,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
