package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the single error contract exposed by the API: every failure
// renders a detail message, optionally with per-field messages attached.
type ErrorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

func ValidationError(c *gin.Context, detail string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Detail: detail, Fields: fields})
}
