package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON error shape shared by every endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RequestID returns the id set by the RequestID middleware, if any.
func RequestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion
	return idStr
}

// Success sends data as the response body
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error sends an {error, details} body
func Error(c *gin.Context, code int, message, details string) {
	c.JSON(code, ErrorBody{
		Error:   message,
		Details: details,
	})
}

// Abort sends an {error, details} body and stops the handler chain
func Abort(c *gin.Context, code int, message, details string) {
	c.AbortWithStatusJSON(code, ErrorBody{
		Error:   message,
		Details: details,
	})
}
