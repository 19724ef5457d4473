package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a success payload as-is. Resource shapes are part of the wire
// contract, so success responses carry no envelope.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error writes a structured error response.
func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, gin.H{
		"error": errorBody{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	})
}
