package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "User registered successfully", res)
}

func (h *Handler) Login(c *gin.Context) {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Login successful", res)
}

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.auth.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, err := h.auth.UpdateProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Profile updated successfully", u)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Logged out successfully", nil)
}
