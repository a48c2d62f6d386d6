package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CodeSuccess is the code carried by every successful envelope.
const CodeSuccess = "SUCCESS"

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Code:      CodeSuccess,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, code, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Code:      code,
		Message:   message,
		Error:     err,
	}
}

// Write sends r with its own status.
func Write[T any](ctx *gin.Context, r APIResponse[T]) {
	ctx.JSON(r.Status, r)
}

// Abort sends r and stops the handler chain.
func Abort[T any](ctx *gin.Context, r APIResponse[T]) {
	ctx.AbortWithStatusJSON(r.Status, r)
}
