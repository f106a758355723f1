package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Envelope is the wire shape of every API response. Data and Error are
// mutually exclusive; Pagination appears only on list endpoints.
type Envelope struct {
	Data       any         `json:"data"`
	Error      *APIError   `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Meta       Meta        `json:"metadata"`
}

// APIError carries a machine-readable code, a human-readable message,
// and optional per-field validation details.
type APIError struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination describes one page of a list result.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Meta carries request tracing information on every envelope.
type Meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Success writes a data envelope with the given status code.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Envelope{Data: data, Meta: meta(c)})
}

// SuccessWithPagination writes a data envelope carrying page information.
func SuccessWithPagination(c *gin.Context, statusCode int, data any, pagination *Pagination) {
	c.JSON(statusCode, Envelope{Data: data, Pagination: pagination, Meta: meta(c)})
}

// Fail writes an error envelope for the given code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, errEnvelope(c, code, nil))
}

// FailWithFields writes an error envelope with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, errEnvelope(c, code, fields))
}

// AbortFail writes an error envelope and stops the middleware chain.
// Meant for use inside middleware; handlers use Fail.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, errEnvelope(c, code, nil))
}

func errEnvelope(c *gin.Context, code ErrCode, fields map[string]string) Envelope {
	return Envelope{
		Error: &APIError{Code: code, Message: GetMessage(code), Fields: fields},
		Meta:  meta(c),
	}
}

func meta(c *gin.Context) Meta {
	id := c.GetString(ContextKeyRequestID)
	if id == "" {
		// Request-ID middleware not applied (tests, ad-hoc routers).
		id = uuid.New().String()
	}
	return Meta{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
