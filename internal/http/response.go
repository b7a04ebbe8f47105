package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the JSON shape every endpoint responds with.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  []string{err.Error()},
	})
}
