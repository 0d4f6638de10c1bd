package errors

import (
	"errors"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "bookpress.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "bookpress.yaml" {
			t.Errorf("expected context file=bookpress.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := ConfigError("test error").Build()
		wrapped := errors.Join(errors.New("outer"), err)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to fall back to internal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("disk full")
	err := WrapError(originalErr, CategoryFileSystem, "write output").
		Warning().
		WithContext("path", "_build/html").
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("expected warning severity, got %s", err.Severity())
	}
	if got := err.Error(); got != "[filesystem:warning] write output: disk full" {
		t.Errorf("unexpected message %q", got)
	}

	withMore := err.WithContext("attempt", 1)
	if _, ok := err.Context().Get("attempt"); ok {
		t.Error("WithContext must not mutate the original error")
	}
	if v, ok := withMore.Context().Get("attempt"); !ok || v != 1 {
		t.Errorf("expected attempt=1 on the copy, got %v", v)
	}
}

func TestErrorIs(t *testing.T) {
	a := NewError(CategoryBook, "toc missing").Build()
	b := NewError(CategoryBook, "toc missing").WithContext("dir", "x").Build()
	c := NewError(CategoryConfig, "toc missing").Build()

	if !errors.Is(a, b) {
		t.Error("same category and message should match")
	}
	if errors.Is(a, c) {
		t.Error("different category should not match")
	}
}
