package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", list)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrCategoryNotFound)
		return
	}
	var in services.CategoryUpdateInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrCategoryNotFound)
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Category deleted successfully", nil)
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrProductNotFound)
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Product created successfully", p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrProductNotFound)
		return
	}
	var in services.ProductUpdateInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Product updated successfully", p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, found := parseID(c, "id")
	if !found {
		fail(c, services.ErrProductNotFound)
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Product deleted successfully", nil)
}
