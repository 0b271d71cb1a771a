package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestMakeError(t *testing.T) {
	err := MakeError(CodePathNotFound, "Template path not found", "missing dir")

	if err.Code() != CodePathNotFound {
		t.Errorf("expected code %s, got %s", CodePathNotFound, err.Code())
	}
	if err.Message() != "Template path not found" {
		t.Errorf("expected description to round-trip, got %q", err.Message())
	}
	if err.Reason() != "missing dir" {
		t.Errorf("expected reason to round-trip, got %q", err.Reason())
	}
	if err.Category() != CategoryFileSystem {
		t.Errorf("expected filesystem category, got %s", err.Category())
	}
	if err.Cause() != nil {
		t.Errorf("expected no cause, got %v", err.Cause())
	}
}

func TestErrorCodesAreStable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeTemplatePathNotFound, 0},
		{CodeTemplatePathNotDirectory, 1},
		{CodeInvalidConfiguration, 2},
		{CodePathNotFound, 3},
		{CodePathNotADirectory, 4},
		{CodePipelineFailure, 5},
		{CodeGenerationCanceled, 6},
		{CodeIdentityUnavailable, 7},
		{CodeStorageFailure, 8},
	}
	for _, tt := range tests {
		if int(tt.code) != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.code, tt.want, int(tt.code))
		}
	}
	if got := ErrorCode(99).String(); got != "code(99)" {
		t.Errorf("unexpected name for unknown code: %s", got)
	}
}

func TestClassifiedErrorChain(t *testing.T) {
	t.Run("found through fmt wrapping", func(t *testing.T) {
		base := MakeError(CodePipelineFailure, "Generation failed", "disk full")
		wrapped := fmt.Errorf("run: %w", base)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCode(wrapped, CodePipelineFailure) {
			t.Errorf("expected pipeline failure code, got %s", GetCode(wrapped))
		}
		if !HasCategory(wrapped, CategoryPipeline) {
			t.Errorf("expected pipeline category, got %s", GetCategory(wrapped))
		}
	})

	t.Run("errors.Is compares codes", func(t *testing.T) {
		a := MakeError(CodeInvalidConfiguration, "a", "x")
		b := MakeError(CodeInvalidConfiguration, "b", "y")
		c := MakeError(CodePathNotFound, "a", "x")
		if !errors.Is(a, b) {
			t.Error("expected errors with the same code to match")
		}
		if errors.Is(a, c) {
			t.Error("expected errors with different codes not to match")
		}
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapError(cause, CategoryStorage, "record run").WithContext("project", "Demo").Build()
		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		project, ok := err.Context().GetString("project")
		if !ok || project != "Demo" {
			t.Errorf("expected project context, got %q", project)
		}
	})

	t.Run("plain errors", func(t *testing.T) {
		plain := errors.New("plain")
		if GetCode(plain) != CodeNone {
			t.Errorf("expected CodeNone, got %s", GetCode(plain))
		}
		if GetCategory(plain) != CategoryInternal {
			t.Errorf("expected internal category, got %s", GetCategory(plain))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityError, RetryUserAction},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryNever},
		{"StorageError", StorageError("test"), CategoryStorage, SeverityError, RetryBackoff},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
			if err.RetryStrategy() != tt.retry {
				t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
			}
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	if v, _ := merged.GetString("key1"); v != "value1" {
		t.Errorf("expected key1=value1, got %s", v)
	}
	if v, _ := merged.GetString("key2"); v != "value2" {
		t.Errorf("expected key2=value2, got %s", v)
	}
	if v, _ := merged.GetString("shared"); v != "overridden" {
		t.Errorf("expected shared=overridden, got %s", v)
	}
}

func TestCLIErrorAdapter(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tests := []struct {
		name     string
		err      error
		exitCode int
		message  string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("boom"), 1, "Error: boom"},
		{
			"invalid configuration",
			MakeError(CodeInvalidConfiguration, "Invalid project configuration", "project_name: cannot be blank"),
			2,
			"Error: Invalid project configuration: project_name: cannot be blank",
		},
		{
			"template path",
			MakeError(CodeTemplatePathNotDirectory, "Template path is not a directory", "/tmp/x"),
			11,
			"Error: Template path is not a directory: /tmp/x",
		},
		{"canceled", MakeError(CodeGenerationCanceled, "Generation canceled", ""), 130, "Error: Generation canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			adapter := NewCLIErrorAdapter(false, logger)
			adapter.out = &out

			if got := adapter.ExitCodeFor(tt.err); got != tt.exitCode {
				t.Errorf("expected exit code %d, got %d", tt.exitCode, got)
			}
			if got := adapter.FormatError(tt.err); got != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, got)
			}
			if got := adapter.Report(tt.err); got != tt.exitCode {
				t.Errorf("Report returned %d, want %d", got, tt.exitCode)
			}
		})
	}

	if !bytes.Contains(logs.Bytes(), []byte("error_code=invalid_configuration")) {
		t.Errorf("expected error code in logs, got %s", logs.String())
	}
}
