package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusOf maps an application error code to an HTTP status.
func StatusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden, apperrors.ErrNoClinic:
		return http.StatusForbidden
	case apperrors.ErrBackend:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// RespondError writes err with the matching status. Internal errors are not
// echoed to the client and backend errors carry only their operation; the
// full chain is attached to the context for the request logger.
func RespondError(c *gin.Context, err error) {
	status := StatusOf(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		message = "internal server error"
	case http.StatusBadGateway:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, NewErrorResponse(message))
}
