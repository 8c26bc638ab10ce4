package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body shared by every endpoint
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// SendError sends a generic error response
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// SendErrorWithDetail sends an error response carrying a short diagnostic
func SendErrorWithDetail(c *gin.Context, statusCode int, message, detail string) {
	c.JSON(statusCode, ErrorResponse{Error: message, Detail: detail})
}

// SendBadRequest sends a 400 bad request error
func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// SendNotFound sends a 404 not found error
func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// SendInternalError sends a 500 internal server error
func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendJSON sends a 200 response with the given body as-is
func SendJSON(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}
