package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusCoder is implemented by domain errors that know their HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Response is the common JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteObject renders obj, or the error mapped to its HTTP status.
func WriteObject(c *gin.Context, obj interface{}, err error) {
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: obj})
}

// WriteMessage renders a success envelope with only a message.
func WriteMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// WriteError maps a domain error to a status code and renders it.
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	c.JSON(status, Response{Success: false, Message: err.Error()})
}
