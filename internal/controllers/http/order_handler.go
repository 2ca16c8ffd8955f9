package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	order, err := h.orders.PlaceOrder(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Order created successfully", CreateOrderResponse{Order: order, OrderItems: order.Items})
}

func (h *Handler) ListOrders(c *gin.Context) {
	list, err := h.orders.ListOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrOrderNotFound)
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", order)
}
