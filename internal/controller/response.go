package controller

import (
	"errors"
	"net/http"

	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

// respondServiceError maps a service failure to an HTTP status. Anything that
// is not a typed service error is an unexpected storage failure and stays
// opaque to the client.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Code {
		case service.CodeNotFound:
			respondError(c, http.StatusNotFound, svcErr.Message)
		case service.CodeForbidden:
			respondError(c, http.StatusForbidden, svcErr.Message)
		default:
			respondError(c, http.StatusBadRequest, svcErr.Message)
		}
		return
	}

	respondError(c, http.StatusInternalServerError, service.MsgInternalServerError)
}
