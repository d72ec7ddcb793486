package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error envelope. The top-level "message" field
// duplicates the error message because every response of this API carries
// one; "error" adds the machine-readable code for newer clients.
type ErrorResponse struct {
	Message string    `json:"message"`
	Error   *AppError `json:"error"`
}

// HandleError writes an AppError to the response. 5xx errors are logged
// with their wrapped cause; client errors are the caller's concern.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		slog.Error("server error",
			"code", string(err.Code),
			"domain", err.Domain,
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)
	}
	c.JSON(err.HTTPCode, ErrorResponse{Message: err.Message, Error: err})
}
