package errors

import "fmt"

// ErrorCode is the stable numeric code consumed by error reporting.
// New codes are appended; existing values never change.
type ErrorCode int

const (
	// CodeNone marks an error that was built without a numbered code.
	CodeNone ErrorCode = -1
)

const (
	CodeTemplatePathNotFound ErrorCode = iota
	CodeTemplatePathNotDirectory
	CodeInvalidConfiguration
	CodePathNotFound
	CodePathNotADirectory
	CodePipelineFailure
	CodeGenerationCanceled
	CodeIdentityUnavailable
	CodeStorageFailure
)

var codeNames = map[ErrorCode]string{
	CodeNone:                     "none",
	CodeTemplatePathNotFound:     "template_path_not_found",
	CodeTemplatePathNotDirectory: "template_path_not_directory",
	CodeInvalidConfiguration:     "invalid_configuration",
	CodePathNotFound:             "path_not_found",
	CodePathNotADirectory:        "path_not_a_directory",
	CodePipelineFailure:          "pipeline_failure",
	CodeGenerationCanceled:       "generation_canceled",
	CodeIdentityUnavailable:      "identity_unavailable",
	CodeStorageFailure:           "storage_failure",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Category returns the category errors with this code are filed under.
func (c ErrorCode) Category() ErrorCategory {
	switch c {
	case CodeTemplatePathNotFound, CodeTemplatePathNotDirectory, CodePathNotFound, CodePathNotADirectory:
		return CategoryFileSystem
	case CodeInvalidConfiguration:
		return CategoryValidation
	case CodePipelineFailure:
		return CategoryPipeline
	case CodeGenerationCanceled:
		return CategoryRuntime
	case CodeIdentityUnavailable:
		return CategoryIdentity
	case CodeStorageFailure:
		return CategoryStorage
	default:
		return CategoryInternal
	}
}

// MakeError builds a classified error carrying a numbered code, a human readable
// description and the failure reason. It has no side effects.
func MakeError(code ErrorCode, description, reason string) *ClassifiedError {
	return NewError(code.Category(), description).
		WithCode(code).
		WithReason(reason).
		Build()
}
