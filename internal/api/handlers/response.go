package handlers

import (
	"errors"
	"log"
	"net/http"

	"bulk-order-api-server/internal/api/middleware"
	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/bulkorder"

	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message, "error": false, "success": true}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "error": true, "success": false})
}

// failWith maps a service error onto the response status. Infrastructure
// errors are logged and reported with a generic message.
func failWith(c *gin.Context, err error) {
	var verr *bulkorder.ValidationError
	var pnf *bulkorder.ProductNotFoundError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &pnf):
		fail(c, http.StatusBadRequest, pnf.Error())
	case errors.Is(err, bulkorder.ErrNotFound):
		fail(c, http.StatusNotFound, "Bulk order not found")
	case errors.Is(err, bulkorder.ErrForbidden):
		fail(c, http.StatusForbidden, "You do not have permission to access this resource")
	case errors.Is(err, bulkorder.ErrInvalidTransition):
		fail(c, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// mustCaller returns the authenticated caller or writes 401.
func mustCaller(c *gin.Context) (auth.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
	}
	return caller, ok
}
