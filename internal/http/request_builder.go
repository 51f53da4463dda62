package http

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/arvindrh/cachelab/internal/dto"
	"github.com/arvindrh/cachelab/internal/i18n"
	"github.com/arvindrh/cachelab/internal/middleware"
)

// envelopePool reduces allocations for the response envelope shared by
// every endpoint on both services.
var envelopePool = sync.Pool{
	New: func() interface{} {
		return &dto.Envelope{}
	},
}

func getEnvelope() *dto.Envelope {
	if env, ok := envelopePool.Get().(*dto.Envelope); ok {
		return env
	}
	return &dto.Envelope{}
}

func putEnvelope(env *dto.Envelope) {
	*env = dto.Envelope{}
	envelopePool.Put(env)
}

// RequestBuilder provides generic request building and unmarshaling capabilities.
type RequestBuilder struct {
	c *gin.Context
}

// NewRequestBuilder creates a new request builder for the given context.
func NewRequestBuilder(c *gin.Context) *RequestBuilder {
	return &RequestBuilder{c: c}
}

// Bind unmarshals the request body into the provided type.
func (b *RequestBuilder) Bind(v interface{}) error {
	if err := b.c.ShouldBindJSON(v); err != nil {
		return err
	}
	return nil
}

// UnmarshalFromReader unmarshals JSON from an io.Reader into the provided type.
func UnmarshalFromReader[T any](reader io.Reader) (*T, error) {
	var v T
	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UnmarshalFromBytes unmarshals JSON bytes into the provided type.
func UnmarshalFromBytes[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ResponseBuilder provides generic response building and marshaling
// capabilities on top of the shared success/error envelope. Uses
// sync.Pool for envelope reuse to reduce allocations.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	requestID := middleware.GetRequestID(b.c)

	env := getEnvelope()
	env.Success = true
	env.Data = data
	env.RequestID = requestID
	env.Timestamp = time.Now()

	b.c.JSON(statusCode, env)

	// Gin's JSON serialization happens synchronously, so returning the
	// envelope to the pool here is safe.
	putEnvelope(env)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error sends an error envelope with the given status code and message.
// message is translated per the caller's Accept-Language header when it
// matches a known i18n key (see internal/i18n/keys.go); an arbitrary
// literal string passes through unchanged.
func (b *ResponseBuilder) Error(statusCode int, message string, err error) {
	requestID := middleware.GetRequestID(b.c)
	locale := i18n.GetLocale(b.c)

	env := getEnvelope()
	env.Success = false
	env.Error = dto.ErrCodeFromStatus(statusCode)
	env.Message = i18n.GetTranslator().Translate(message, locale)
	env.RequestID = requestID
	env.Timestamp = time.Now()

	// Attach the underlying error to the context for ErrorHandler to log.
	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, env)

	putEnvelope(env)
}

// MarshalJSON marshals the provided value to JSON bytes.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalToWriter marshals the provided value to JSON and writes it to the writer.
func MarshalToWriter(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// BuildRequest is a generic helper to build a request from gin context.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	builder := NewRequestBuilder(c)
	var req T
	if err := builder.Bind(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validator is implemented by request types that can validate themselves.
type Validator interface {
	Validate() error
}

// BuildRequestAndValidate builds a request and validates it if it implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if validator, ok := any(req).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}
