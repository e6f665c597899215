package errors

// ErrorCategory routes an error to an exit code and a pipeline policy.
type ErrorCategory string

const (
	// Operator input.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Page generation.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRegistry   ErrorCategory = "registry"
	CategoryRender     ErrorCategory = "render"

	// Event delivery.
	CategoryNotify ErrorCategory = "notify"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity tells the CLI how loudly to report an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the run
	SeverityError   ErrorSeverity = "error"   // fails the operation
	SeverityWarning ErrorSeverity = "warning" // run continues
)

// RetryStrategy says whether repeating the operation may help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext carries structured fields logged with the error.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when nil.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get returns the value stored under key.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}
