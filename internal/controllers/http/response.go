package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

var notFoundMessages = []struct {
	err error
	msg string
}{
	{services.ErrOrderNotFound, "Order not found"},
	{services.ErrCartItemNotFound, "Product not found in cart"},
	{services.ErrCartNotFound, "Cart not found"},
	{services.ErrProductNotFound, "Product not found"},
	{services.ErrCategoryNotFound, "Category not found"},
	{services.ErrUserNotFound, "User not found"},
}

// fail writes the error response matching err. Unknown errors are logged and
// answered with a generic 500.
func fail(c *gin.Context, err error) {
	var (
		verr  *services.ValidationError
		stock *services.StockError
	)
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{Success: false, Message: "Validation failed", Errors: verr.Fields})
	case errors.As(err, &stock):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{Success: false, Message: "Insufficient stock for product: " + stock.ProductName})
	case errors.Is(err, services.ErrEmptyCart):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Response{Success: false, Message: "Cart is empty"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: "Invalid credentials"})
	case errors.Is(err, services.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: "Unauthorized"})
	case errors.Is(err, services.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, Response{Success: false, Message: "Admin access required"})
	case errors.Is(err, services.ErrNotFound):
		msg := "Not found"
		for _, m := range notFoundMessages {
			if errors.Is(err, m.err) {
				msg = m.msg
				break
			}
		}
		c.AbortWithStatusJSON(http.StatusNotFound, Response{Success: false, Message: msg})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Success: false, Message: "Internal server error"})
	}
}
