package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", view)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var in services.CartItemInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Product added to cart", view)
}

func (h *Handler) UpdateCart(c *gin.Context) {
	var in services.CartItemInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	view, err := h.carts.UpdateItem(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Cart updated successfully", view)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	productID, found := parseID(c, "product_id")
	if !found {
		fail(c, services.ErrCartItemNotFound)
		return
	}
	view, err := h.carts.RemoveItem(c.Request.Context(), currentUserID(c), productID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Product removed from cart", view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Cart cleared successfully", nil)
}
