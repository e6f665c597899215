package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Format(t *testing.T) {
	plain := RenderError("template failed").Build()
	assert.Equal(t, "[render:fatal] template failed", plain.Error())
	assert.Nil(t, plain.Unwrap())

	cause := errors.New("disk full")
	wrapped := RegistryError("save registry").WithCause(cause).Build()
	assert.Equal(t, "[registry:fatal] save registry: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *ClassifiedError
		category  ErrorCategory
		severity  ErrorSeverity
		transient bool
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, SeverityFatal, false},
		{"validation", ValidationError("x").Build(), CategoryValidation, SeverityFatal, false},
		{"not found", NotFoundError("x").Build(), CategoryNotFound, SeverityError, false},
		{"filesystem", FileSystemError("x").Build(), CategoryFileSystem, SeverityFatal, true},
		{"registry", RegistryError("x").Build(), CategoryRegistry, SeverityFatal, false},
		{"render", RenderError("x").Build(), CategoryRender, SeverityFatal, false},
		{"notify", NotifyError("x").Build(), CategoryNotify, SeverityWarning, true},
		{"runtime", RuntimeError("x").Build(), CategoryRuntime, SeverityFatal, false},
		{"internal", InternalError("x").Build(), CategoryInternal, SeverityFatal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.severity, tt.err.Severity())
			assert.Equal(t, tt.transient, tt.err.IsTransient())
			assert.Equal(t, tt.severity == SeverityFatal, tt.err.IsFatal())
		})
	}
}

func TestErrorBuilder_Context(t *testing.T) {
	err := WrapError(errors.New("timeout"), CategoryNotify, "publish failure").
		WithContext("subject", "citepage.generated").
		WithContext("attempt", 2).
		Build()

	subject, ok := err.Context().GetString("subject")
	require.True(t, ok)
	assert.Equal(t, "citepage.generated", subject)

	attempt, ok := err.Context().Get("attempt")
	require.True(t, ok)
	assert.Equal(t, 2, attempt)

	_, ok = err.Context().GetString("attempt")
	assert.False(t, ok)
	assert.Equal(t, "publish failure", err.Message())
	assert.EqualError(t, err.Cause(), "timeout")
}

func TestClassifiedError_WithContextCopies(t *testing.T) {
	base := RegistryError("save registry").WithContext("path", "a.json").Build()
	derived := base.WithContext("path", "b.json")

	p, _ := base.Context().GetString("path")
	assert.Equal(t, "a.json", p)
	p, _ = derived.Context().GetString("path")
	assert.Equal(t, "b.json", p)

	bare := (&ErrorBuilder{category: CategoryRender}).Build().WithContext("k", "v")
	v, ok := bare.Context().GetString("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestClassifiedError_Is(t *testing.T) {
	a := RegistryError("save registry").WithContext("path", "x").Build()
	b := RegistryError("save registry").Build()
	c := RenderError("save registry").Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestAsClassified_WrappedChain(t *testing.T) {
	inner := NotifyError("flush failed").Build()
	err := fmt.Errorf("notify stage: %w", inner)

	ce, ok := AsClassified(err)
	require.True(t, ok)
	assert.Same(t, inner, ce)
	assert.True(t, IsClassified(err))
	assert.True(t, HasCategory(err, CategoryNotify))
	assert.False(t, HasCategory(err, CategoryRegistry))

	assert.False(t, IsClassified(errors.New("plain")))
	assert.False(t, HasCategory(nil, CategoryNotify))
}
