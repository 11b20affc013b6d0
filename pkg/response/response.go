// Package response centralizes the JSON body shapes the API emits. Success
// payloads are written as-is; failures always carry a human-readable error
// string and optional details, so no endpoint ever returns a bare 500.
package response

import "github.com/gin-gonic/gin"

// ErrorBody is the uniform failure shape: { error, details? }.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a success payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error writes the uniform failure body with the given status.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorBody{Error: message, Details: details})
}
