package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every /v1 endpoint.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString("RequestID")
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Success: true, Message: message, Data: data, RequestID: requestID(c)})
}

// Error sends an error response. err carries field messages or a failed
// submit result and is omitted when nil.
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{Success: false, Message: message, Error: err, RequestID: requestID(c)})
}
