// Package i18n provides internationalization support for the cache and
// store HTTP surfaces.
package i18n

// Error message translation keys, one per domain error kind plus the
// boundary-level validation messages the handlers raise directly.
const (
	// ErrKeyValidationFailure indicates a malformed request: an empty
	// or oversized key, an oversized value, or a negative TTL.
	ErrKeyValidationFailure = "error.validation_failure"
	// ErrKeyInvalidRequestBody indicates a request body that failed to
	// parse as JSON into the expected shape.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyNotFound indicates the requested key is absent (including
	// lazily expired cache entries).
	ErrKeyNotFound = "error.not_found"
	// ErrKeyIOFailure indicates a store file read/write error other
	// than "not exist".
	ErrKeyIOFailure = "error.io_failure"
	// ErrKeyCorruptEntry indicates a store file's JSON failed to parse.
	ErrKeyCorruptEntry = "error.corrupt_entry"
	// ErrKeyInternalError is the catch-all for unexpected failures.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyRateLimitExceeded indicates the caller exceeded the
	// per-IP rate limit.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyTimeout indicates a request exceeded its server-side
	// timeout budget.
	ErrKeyTimeout = "error.timeout"
)

// Success message translation keys.
const (
	// SuccessKeyCleared confirms a cache or store clear operation.
	SuccessKeyCleared = "success.cleared"
)
