package http

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-api/internal/domain"
	"storefront-api/internal/services"
)

type CreateOrderResponse struct {
	Order      *domain.Order      `json:"order"`
	OrderItems []domain.OrderItem `json:"order_items"`
}

// bindJSON decodes the body into dst. Validation rules live in the services;
// only decoding problems are reported here. An empty body decodes to the zero
// value.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return services.NewValidationError(typeErr.Field, "The "+typeErr.Field+" has an invalid type.")
	}
	return services.NewValidationError("body", "The request body must be valid JSON.")
}

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseProductFilter reads the catalog query string. Absent parameters stay
// unset; malformed ones are validation errors.
func parseProductFilter(c *gin.Context) (domain.ProductFilter, error) {
	verr := &services.ValidationError{}
	f := domain.ProductFilter{Search: c.Query("search")}

	f.Page = queryInt(c, verr, "page")
	f.Limit = queryInt(c, verr, "limit")

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			verr.Add("category_id", "The category id must be an integer.")
		} else {
			f.CategoryID = &id
		}
	}
	f.MinPrice = queryDecimal(c, verr, "min_price")
	f.MaxPrice = queryDecimal(c, verr, "max_price")

	return f, verr.Err()
}

func queryInt(c *gin.Context, verr *services.ValidationError, key string) int {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		verr.Add(key, "The "+key+" must be a positive integer.")
		return 0
	}
	return n
}

func queryDecimal(c *gin.Context, verr *services.ValidationError, key string) *decimal.Decimal {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		verr.Add(key, "The "+key+" must be a number.")
		return nil
	}
	return &d
}
